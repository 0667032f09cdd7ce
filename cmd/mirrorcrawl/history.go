package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/mirrorcrawl/internal/config"
	"github.com/nao1215/mirrorcrawl/internal/database"
	"github.com/nao1215/mirrorcrawl/internal/report"
)

// defaultHistoryLimit is the number of runs listed without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past crawl runs from the crawl journal",
		Long: `History reads the crawl journal written by "mirrorcrawl crawl".

Without arguments it lists recent runs, newest first. With a run ID, or
any unambiguous prefix of one, it lists every URL the run dispatched with
its HTTP status, link count, content hash and error. With --summary it
prints the stored summary of that run instead.

Examples:
  # List the last 20 runs
  mirrorcrawl history

  # Show the fetches of one run
  mirrorcrawl history 0b7a2c1e

  # Show its summary as Markdown
  mirrorcrawl history 0b7a2c1e --summary --format markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("format", "f", report.FormatText,
		"Output format: text, markdown or json")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("summary", "s", false,
		"Print the stored summary of the run instead of its fetches")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the crawl journal database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	showSummary, err := flags.GetBool("summary")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	w, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// The journal is only read here; a missing database means no crawl ran yet.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl journal found (run \"mirrorcrawl crawl\" first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 0 {
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		_, err = w.WriteRuns(runs)
		return err
	}

	run, err := db.GetRun(ctx, args[0])
	if err != nil {
		return err
	}

	if showSummary {
		summary, err := db.GetRunSummary(ctx, run.ID)
		if err != nil {
			return err
		}
		_, err = w.Write(summary)
		return err
	}

	fetches, err := db.GetRunFetches(ctx, run.ID)
	if err != nil {
		return err
	}
	_, err = w.WriteFetches(run, fetches)
	return err
}
