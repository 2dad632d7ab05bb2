package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const cellPadding = 2

// RenderTable lays rows out in aligned columns under a styled header and a
// dim separator. Cells may already carry ANSI styling.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cell := lipgloss.NewStyle().PaddingRight(cellPadding)
	head := StyleHeader.PaddingRight(cellPadding)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		}).
		Headers(headers...)

	for _, r := range rows {
		padded := make([]string, len(headers))
		copy(padded, r)
		t.Row(padded...)
	}
	return t.String() + "\n"
}
