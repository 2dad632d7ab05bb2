package cli

import (
	"fmt"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/spf13/cobra"
)

func newJobsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Inspect and run background jobs",
	}

	cmd.AddCommand(
		newJobsRunCmd(app),
		newJobsListCmd(app),
	)

	return cmd
}

func newJobsRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every pending job once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPendingJobs(cmd, app)
		},
	}
}

// runPendingJobs drains the queue and prints the summary. Failed jobs are
// reported, not returned as an error.
func runPendingJobs(cmd *cobra.Command, app *App) error {
	if app.Runner == nil {
		return fmt.Errorf("job runner is not configured")
	}
	summary, err := app.Runner.RunPending(cmd.Context())
	if summary.Claimed > 0 || err == nil {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunSummary(summary))
	}
	return err
}

func newJobsListCmd(app *App) *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.JobStatus
			if status != "" {
				s := domain.JobStatus(status)
				switch s {
				case domain.JobPending, domain.JobRunning, domain.JobSucceeded, domain.JobFailed:
				default:
					return fmt.Errorf("unknown --status %q (pending, running, succeeded, failed)", status)
				}
				filter = &s
			}
			list, err := app.Jobs.List(cmd.Context(), filter, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatJobList(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only jobs with this status")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of jobs to show")

	return cmd
}
