package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
)

const maxErrorWidth = 48

// FormatJobList renders queued and finished jobs, newest first.
func FormatJobList(list []*domain.Job) string {
	if len(list) == 0 {
		return Dim("No jobs.") + "\n"
	}

	headers := []string{"ID", "TASK", "STATUS", "CREATED", "ERROR"}
	rows := make([][]string, 0, len(list))
	for _, j := range list {
		errText := Dim("--")
		if j.Error != "" {
			errText = StyleRed.Render(truncate(j.Error, maxErrorWidth))
		}
		rows = append(rows, []string{
			TruncID(j.ID),
			j.TaskName,
			JobStatusPill(j.Status),
			Timestamp(j.CreatedAt),
			errText,
		})
	}
	return RenderTable(headers, rows)
}

// FormatRunSummary reports what one runner pass did.
func FormatRunSummary(s jobs.Summary) string {
	if s.Claimed == 0 {
		return Dim("No pending jobs.") + "\n"
	}
	line := fmt.Sprintf("Ran %d job(s): %s succeeded", s.Claimed, StyleGreen.Render(strconv.Itoa(s.Succeeded)))
	if s.Failed > 0 {
		line += ", " + StyleRed.Render(strconv.Itoa(s.Failed)) + " failed"
	}
	return line + "\n"
}

// MetricSample is one counter value ready for display.
type MetricSample struct {
	Name   string
	Labels string
	Value  float64
}

// FormatMetrics renders counter samples as a table.
func FormatMetrics(samples []MetricSample) string {
	if len(samples) == 0 {
		return Dim("No metrics recorded.") + "\n"
	}
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{s.Name, s.Labels, strconv.FormatFloat(s.Value, 'f', -1, 64)})
	}
	return Header("Metrics") + "\n" + RenderTable([]string{"NAME", "LABELS", "VALUE"}, rows)
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
