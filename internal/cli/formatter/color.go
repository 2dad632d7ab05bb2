package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// AgendaStatusPill renders an agenda status such as "● ACTIVE".
func AgendaStatusPill(status domain.AgendaStatus) string {
	switch status {
	case domain.AgendaActive:
		return StyleGreen.Render("● ACTIVE")
	case domain.AgendaInactive:
		return StyleDim.Render("○ INACTIVE")
	default:
		return StyleDim.Render(strings.ToUpper(string(status)))
	}
}

// JobStatusPill renders a job status in its color.
func JobStatusPill(status domain.JobStatus) string {
	label := strings.ToUpper(string(status))
	switch status {
	case domain.JobPending:
		return StyleYellow.Render("◌ " + label)
	case domain.JobRunning:
		return StyleBlue.Render("◐ " + label)
	case domain.JobSucceeded:
		return StyleGreen.Render("● " + label)
	case domain.JobFailed:
		return StyleRed.Render("✗ " + label)
	default:
		return StyleDim.Render(label)
	}
}

// Header renders an upper-cased section title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a confirmation line with a green check.
func Success(text string) string {
	return StyleGreen.Render("✔") + " " + text
}
