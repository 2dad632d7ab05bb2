package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes renders a duration in minutes as "1h 15m", "45m" or "2h".
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// OrDash renders a nullable string, or a dim "--" when it is unset.
func OrDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Dim("--")
	}
	return *s
}

// IntOrDash renders a nullable int, or a dim "--" when it is unset.
func IntOrDash(n *int) string {
	if n == nil {
		return Dim("--")
	}
	return fmt.Sprintf("%d", *n)
}

// DateOrDash renders a meeting date as YYYY-MM-DD.
func DateOrDash(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("2006-01-02")
}

// Timestamp renders t in local time to the minute.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
