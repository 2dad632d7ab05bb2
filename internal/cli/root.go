// Package cli exposes the agenda services as cobra commands.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
	"github.com/alexanderramin/reviewagenda/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// JobRunner drains the background job queue.
type JobRunner interface {
	RunPending(ctx context.Context) (jobs.Summary, error)
}

// JobLister reads the job queue.
type JobLister interface {
	List(ctx context.Context, status *domain.JobStatus, limit int) ([]*domain.Job, error)
}

// App holds everything the commands need.
type App struct {
	Agendas   service.AgendaService
	Items     service.ItemService
	Documents service.DocumentService
	Moves     service.MoveService
	Runner    JobRunner
	Jobs      JobLister

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// PickAgenda asks the user to choose one of options and returns its ID.
	// Nil uses a huh select.
	PickAgenda func(ctx context.Context, title string, options []*domain.Agenda) (string, error)
	// Metrics is read by --metrics. Nil uses the default registry.
	Metrics prometheus.Gatherer
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the "reviewagenda" command tree.
func NewRootCmd(app *App) *cobra.Command {
	var showMetrics bool

	root := &cobra.Command{
		Use:           "reviewagenda",
		Short:         "Keep review meeting agendas ordered and timed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !showMetrics {
				return nil
			}
			samples, err := gatherSamples(app.Metrics)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMetrics(samples))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print trigger and job counters after the command")

	root.AddCommand(
		newAgendaCmd(app),
		newItemCmd(app),
		newDocumentCmd(app),
		newJobsCmd(app),
	)

	return root
}

// gatherSamples collects the reviewagenda_* counters.
func gatherSamples(g prometheus.Gatherer) ([]formatter.MetricSample, error) {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	var samples []formatter.MetricSample
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "reviewagenda_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			samples = append(samples, formatter.MetricSample{
				Name:   mf.GetName(),
				Labels: strings.Join(labels, ","),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}
