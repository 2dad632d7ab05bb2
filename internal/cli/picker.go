package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// agendaHuhTheme styles prompts with the formatter palette.
func agendaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// promptDestination asks which active agenda, other than fromAgendaID, an
// item should move to.
func promptDestination(ctx context.Context, app *App, fromAgendaID string) (string, error) {
	if !app.interactive() {
		return "", errors.New("--to is required when not running in a terminal")
	}

	agendas, err := app.Agendas.List(ctx, false)
	if err != nil {
		return "", err
	}
	options := make([]*domain.Agenda, 0, len(agendas))
	for _, a := range agendas {
		if a.ID != fromAgendaID {
			options = append(options, a)
		}
	}
	if len(options) == 0 {
		return "", errors.New("no other active agenda to move to")
	}

	pick := app.PickAgenda
	if pick == nil {
		pick = selectAgenda
	}
	return pick(ctx, "Move to which agenda?", options)
}

func selectAgenda(ctx context.Context, title string, agendas []*domain.Agenda) (string, error) {
	opts := make([]huh.Option[string], 0, len(agendas))
	for _, a := range agendas {
		label := a.Name
		if a.MeetingDate != nil {
			label = fmt.Sprintf("%s (%s)", a.Name, a.MeetingDate.Format("2006-01-02"))
		}
		opts = append(opts, huh.NewOption(label, a.ID))
	}

	var result string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&result),
		),
	).WithTheme(agendaHuhTheme()).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return result, nil
}
