package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/importer"
	"github.com/alexanderramin/reviewagenda/internal/service"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items", "i"},
		Short:   "Manage agenda items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemShowCmd(app),
		newItemUpdateCmd(app),
		newItemRemoveCmd(app),
		newItemMoveCmd(app),
		newItemImportCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		agenda   string
		topic    string
		document optionalInt64
		order    optionalInt
		duration optionalInt
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to an agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			agendaID, err := resolveAgendaID(ctx, app, agenda)
			if err != nil {
				return err
			}

			item, err := app.Items.Create(ctx, service.CreateItemInput{
				AgendaID:    agendaID,
				Topic:       topic,
				DocumentID:  document.Ptr(),
				Order:       order.Ptr(),
				DurationMin: duration.Ptr(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added item"))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItem(item))
			return nil
		},
	}

	cmd.Flags().StringVar(&agenda, "agenda", "", "agenda ID, ID prefix or name (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "item topic (defaults to the document number)")
	cmd.Flags().Var(&document, "document", "linked document ID")
	cmd.Flags().Var(&order, "order", "position on the agenda, 1 is first")
	cmd.Flags().Var(&duration, "duration", "duration in minutes")
	_ = cmd.MarkFlagRequired("agenda")

	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM_ID",
		Short: "Show an agenda item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Items.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItem(item))
			return nil
		},
	}
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var (
		topic         string
		document      optionalInt64
		clearDocument bool
		order         optionalInt
		clearOrder    bool
		duration      optionalInt
		clearDuration bool
	)

	cmd := &cobra.Command{
		Use:   "update ITEM_ID",
		Short: "Change an item's topic, document, order or duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := service.ItemPatch{
				DocumentID:    document.Ptr(),
				ClearDocument: clearDocument,
				Order:         order.Ptr(),
				ClearOrder:    clearOrder,
				DurationMin:   duration.Ptr(),
				ClearDuration: clearDuration,
			}
			if cmd.Flags().Changed("topic") {
				patch.Topic = &topic
			}

			item, err := app.Items.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Updated item"))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItem(item))
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "new topic")
	cmd.Flags().Var(&document, "document", "link a document")
	cmd.Flags().BoolVar(&clearDocument, "clear-document", false, "unlink the document")
	cmd.Flags().Var(&order, "order", "new position, 1 is first")
	cmd.Flags().BoolVar(&clearOrder, "clear-order", false, "take the item off the schedule")
	cmd.Flags().Var(&duration, "duration", "new duration in minutes")
	cmd.Flags().BoolVar(&clearDuration, "clear-duration", false, "remove the duration")
	cmd.MarkFlagsMutuallyExclusive("document", "clear-document")
	cmd.MarkFlagsMutuallyExclusive("order", "clear-order")
	cmd.MarkFlagsMutuallyExclusive("duration", "clear-duration")

	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ITEM_ID",
		Aliases: []string{"rm"},
		Short:   "Delete an agenda item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Items.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed item "+args[0]))
			return nil
		},
	}
}

func newItemMoveCmd(app *App) *cobra.Command {
	var (
		to  string
		run bool
	)

	cmd := &cobra.Command{
		Use:   "move ITEM_ID",
		Short: "Move an item to another agenda",
		Long: "Move an item to another agenda. The item is appended there unscheduled;\n" +
			"the source agenda is renumbered by a background job (see --run).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			item, err := app.Items.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			var destID string
			if to != "" {
				destID, err = resolveAgendaID(ctx, app, to)
			} else {
				destID, err = promptDestination(ctx, app, item.AgendaID)
			}
			if err != nil {
				return err
			}

			moved, err := app.Moves.MoveItem(ctx, item.ID, destID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Moved %s to agenda %s", formatter.Bold(moved.Topic), destID)))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItem(moved))
			if !run {
				return nil
			}
			return runPendingJobs(cmd, app)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "destination agenda ID, ID prefix or name (prompted when omitted)")
	cmd.Flags().BoolVar(&run, "run", false, "run pending jobs right away")

	return cmd
}

func newItemImportCmd(app *App) *cobra.Command {
	var (
		agenda string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-add items from a YAML file",
		Long: "Bulk-add items from a YAML file. Imported items keep the order values\n" +
			"in the file; no renumbering or time computation happens.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			agendaID, err := resolveAgendaID(ctx, app, agenda)
			if err != nil {
				return err
			}

			parsed, err := importer.LoadItemFile(file)
			if err != nil {
				return err
			}
			if errs := importer.ValidateItemFile(parsed); len(errs) > 0 {
				msgs := make([]string, 0, len(errs))
				for _, e := range errs {
					msgs = append(msgs, "  "+e.Error())
				}
				return errors.New("invalid import file:\n" + strings.Join(msgs, "\n"))
			}

			items, err := app.Items.CreateBatch(ctx, agendaID, importer.Convert(parsed, agendaID))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Imported %d item(s)", len(items))))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemTable(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&agenda, "agenda", "", "agenda ID, ID prefix or name (required)")
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML item file (required)")
	_ = cmd.MarkFlagRequired("agenda")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
