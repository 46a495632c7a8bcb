package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/database"
	"github.com/nao1215/epubdiff/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past comparison runs",
		Long: `History lists comparison runs recorded in the local database,
most recent first, with per-run finding counts.

Examples:
  # List the last 20 runs
  epubdiff history

  # List all runs
  epubdiff history --limit 0

  # Print the stored report of run 3
  epubdiff history --show 3`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64P("show", "s", 0, "Print the full stored report for the given run ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no comparison history found: %w", err)
	}
	defer db.Close()

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	if showID > 0 {
		return showRun(cmd, db, showID)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no comparison runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tORIGINAL\tTRANSLATED\tFINDINGS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04"),
			run.OriginalPath,
			run.TranslatedPath,
			run.TotalFindings(),
		)
	}
	return tw.Flush()
}

// showRun prints the full stored report of one run.
func showRun(cmd *cobra.Command, db *database.HistoryDB, id int64) error {
	stored, err := db.GetReportByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("no comparison run with ID %d", id)
	}

	_, err = report.NewTextWriter(cmd.OutOrStdout()).Write(stored)
	return err
}
