package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveAgendaID accepts an exact agenda ID, a case-insensitive agenda
// name, or an unambiguous ID prefix. Inactive agendas are included.
func resolveAgendaID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("agenda is required")
	}

	agendas, err := app.Agendas.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, a := range agendas {
		if a.ID == input {
			return a.ID, nil
		}
	}

	var byName []string
	for _, a := range agendas {
		if strings.EqualFold(a.Name, input) {
			byName = append(byName, a.ID)
		}
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return "", fmt.Errorf("agenda name %q is ambiguous (%d matches), use the ID", input, len(byName))
	}

	var matches []string
	for _, a := range agendas {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("agenda not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("agenda ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
