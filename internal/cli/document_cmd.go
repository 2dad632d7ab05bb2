package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/cli/formatter"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/spf13/cobra"
)

func newDocumentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc", "docs"},
		Short:   "Manage controlled documents",
	}

	cmd.AddCommand(
		newDocumentAddCmd(app),
		newDocumentShowCmd(app),
	)

	return cmd
}

func newDocumentAddCmd(app *App) *cobra.Command {
	var (
		number string
		owner  string
		pm     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a document items can link to",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &domain.Document{Number: number, Owner: owner}
			if pm != "" {
				d.ProjectManager = &pm
			}
			if err := app.Documents.Create(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added document %s (id %d)", formatter.Bold(d.Number), d.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "document number (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "document owner (required)")
	cmd.Flags().StringVar(&pm, "pm", "", "project manager")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func newDocumentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DOCUMENT_ID",
		Short: "Show a document and the agendas it is on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document ID %q", args[0])
			}
			d, err := app.Documents.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", formatter.Dim("Number "), formatter.Bold(d.Number))
			fmt.Fprintf(out, "%s  %s\n", formatter.Dim("Owner  "), d.Owner)
			fmt.Fprintf(out, "%s  %s\n", formatter.Dim("PM     "), formatter.OrDash(d.ProjectManager))
			agendas := formatter.Dim("--")
			if len(d.AgendaIDs) > 0 {
				agendas = strings.Join(d.AgendaIDs, ", ")
			}
			fmt.Fprintf(out, "%s  %s\n", formatter.Dim("Agendas"), agendas)
			return nil
		},
	}
}
