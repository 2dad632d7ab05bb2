package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/domain"
)

// FormatAgendaList renders agendas as a table inside a bordered box.
func FormatAgendaList(agendas []*domain.Agenda) string {
	if len(agendas) == 0 {
		return Dim("No agendas.") + "\n"
	}

	headers := []string{"ID", "NAME", "DATE", "TIME", "STATUS"}
	rows := make([][]string, 0, len(agendas))
	for _, a := range agendas {
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(a.Name),
			DateOrDash(a.MeetingDate),
			OrDash(a.MeetingTime),
			AgendaStatusPill(a.Status),
		})
	}
	return RenderBox("Agendas", RenderTable(headers, rows)) + "\n"
}

// FormatAgendaDetail renders an agenda's header fields followed by its
// items in order, unscheduled items last.
func FormatAgendaDetail(a *domain.Agenda, items []*domain.AgendaItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Dim("ID    "), a.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Date  "), DateOrDash(a.MeetingDate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Time  "), OrDash(a.MeetingTime))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status"), AgendaStatusPill(a.Status))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(Dim("No items."))
		return RenderBox(a.Name, b.String()) + "\n"
	}

	b.WriteString(FormatItemTable(items))
	if total := scheduledMinutes(items); total > 0 {
		fmt.Fprintf(&b, "\n%s %s", Dim("Scheduled:"), FormatMinutes(total))
	}
	return RenderBox(a.Name, b.String()) + "\n"
}

// FormatItemTable renders agenda items with their schedule columns.
func FormatItemTable(items []*domain.AgendaItem) string {
	headers := []string{"#", "TOPIC", "MIN", "START", "END", "OWNER", "ID"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			IntOrDash(it.Order),
			it.Topic,
			IntOrDash(it.DurationMin),
			OrDash(it.StartTime),
			OrDash(it.EndTime),
			OrDash(firstSet(it.ProjectOwner, it.DocumentOwner)),
			TruncID(it.ID),
		})
	}
	return RenderTable(headers, rows)
}

// FormatItem renders one item as a short key/value card.
func FormatItem(it *domain.AgendaItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID      "), it.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Topic   "), Bold(it.Topic))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Agenda  "), it.AgendaID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Order   "), IntOrDash(it.Order))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Duration"), IntOrDash(it.DurationMin))
	if it.StartTime != nil || it.EndTime != nil {
		fmt.Fprintf(&b, "%s  %s - %s\n", Dim("Time    "), OrDash(it.StartTime), OrDash(it.EndTime))
	}
	if it.DocumentID != nil {
		fmt.Fprintf(&b, "%s  %d\n", Dim("Document"), *it.DocumentID)
	}
	return b.String()
}

func scheduledMinutes(items []*domain.AgendaItem) int {
	total := 0
	for _, it := range items {
		if it.Order != nil && it.DurationMin != nil {
			total += *it.DurationMin
		}
	}
	return total
}

func firstSet(vals ...*string) *string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
