package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/spf13/cobra"
)

func newAgendaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agenda",
		Aliases: []string{"agendas", "a"},
		Short:   "Manage agendas",
	}

	cmd.AddCommand(
		newAgendaCreateCmd(app),
		newAgendaListCmd(app),
		newAgendaShowCmd(app),
		newAgendaSetTimeCmd(app),
		newAgendaCompressCmd(app),
		newAgendaDeactivatePastCmd(app),
	)

	return cmd
}

func newAgendaCreateCmd(app *App) *cobra.Command {
	var (
		name        string
		date        string
		meetingTime string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &domain.Agenda{Name: name}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
				}
				a.MeetingDate = &d
			}
			if meetingTime != "" {
				a.MeetingTime = &meetingTime
			}

			if err := app.Agendas.Create(cmd.Context(), a); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created agenda %s (%s)", formatter.Bold(a.Name), a.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "agenda name (required)")
	cmd.Flags().StringVar(&date, "date", "", "meeting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&meetingTime, "time", "", `meeting time, e.g. "9:30 AM ET" or "13:30 CET"`)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAgendaListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List agendas",
		RunE: func(cmd *cobra.Command, args []string) error {
			agendas, err := app.Agendas.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgendaList(agendas))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive agendas")

	return cmd
}

func newAgendaShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show AGENDA",
		Short: "Show an agenda and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveAgendaID(ctx, app, args[0])
			if err != nil {
				return err
			}
			a, err := app.Agendas.GetByID(ctx, id)
			if err != nil {
				return err
			}
			items, err := app.Items.ListByAgenda(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgendaDetail(a, items))
			return nil
		},
	}
}

func newAgendaSetTimeCmd(app *App) *cobra.Command {
	var clearTime bool

	cmd := &cobra.Command{
		Use:   "set-time AGENDA [TIME]",
		Short: "Change the meeting time and recompute item times",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var meetingTime *string
			switch {
			case clearTime && len(args) == 2:
				return fmt.Errorf("give either a TIME or --clear, not both")
			case !clearTime && len(args) == 1:
				return fmt.Errorf("TIME is required (or use --clear)")
			case !clearTime:
				meetingTime = &args[1]
			}

			id, err := resolveAgendaID(ctx, app, args[0])
			if err != nil {
				return err
			}
			a, err := app.Agendas.SetMeetingTime(ctx, id, meetingTime)
			if err != nil {
				return err
			}
			items, err := app.Items.ListByAgenda(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgendaDetail(a, items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearTime, "clear", false, "remove the meeting time")

	return cmd
}

func newAgendaCompressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compress AGENDA",
		Short: "Renumber scheduled items 1..n without gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveAgendaID(ctx, app, args[0])
			if err != nil {
				return err
			}
			changed, err := app.Agendas.CompressOrdering(ctx, id)
			if err != nil {
				return err
			}
			if changed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Ordering already compact."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Renumbered %d item(s)", changed)))
			return nil
		},
	}
}

func newAgendaDeactivatePastCmd(app *App) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "deactivate-past",
		Short: "Queue the job that deactivates agendas whose date has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jobID, err := app.Agendas.ScheduleDeactivation(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Queued job %s", jobID)))
			if !run {
				return nil
			}
			return runPendingJobs(cmd, app)
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "run pending jobs right away")

	return cmd
}
