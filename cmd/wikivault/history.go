package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikivault/internal/config"
	"github.com/nao1215/wikivault/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists past conversion runs recorded in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dump-name]",
		Short: "List past conversion runs",
		Long: `History lists conversion runs recorded in the run database.

Each convert run stores its counters and per-tag page counts, so past
conversions of the same dump can be compared: pages written, redirects
skipped, warning totals, and how the tag population shifted between
exports.

Examples:
  # List all recorded runs
  wikivault history

  # List runs for one dump
  wikivault history wiki.xml

  # Show only the five most recent runs
  wikivault history --limit 5

  # List the dumps with recorded runs
  wikivault history --list-dumps

  # Show the per-tag page counts of run 3
  wikivault history --tags 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-dumps", "l", false,
		"List the dump names with recorded runs")
	cmd.Flags().Int64P("tags", "t", 0,
		"Show the per-tag page counts of the run with this ID")
	cmd.Flags().IntP("limit", "L", 0,
		"Maximum number of runs to list (0 = all)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listDumps, err := cmd.Flags().GetBool("list-dumps")
	if err != nil {
		return err
	}
	tagsRunID, err := cmd.Flags().GetInt64("tags")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dumpName := ""
	if len(args) > 0 {
		dumpName = args[0]
	}

	return runHistory(cmd.Context(), cmd.OutOrStdout(), config.XDGDataDir(), historyQuery{
		listDumps: listDumps,
		tagsRunID: tagsRunID,
		dumpName:  dumpName,
		limit:     limit,
	})
}

// historyQuery describes which view of the run history to print.
type historyQuery struct {
	listDumps bool
	tagsRunID int64
	dumpName  string
	limit     int
}

// runHistory opens the run database and prints the requested view.
func runHistory(ctx context.Context, w io.Writer, dbDir string, q historyQuery) error {
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history yet (run 'wikivault convert' first): %w", err)
	}
	defer db.Close() //nolint:errcheck

	switch {
	case q.listDumps:
		return printDumps(ctx, w, db)
	case q.tagsRunID > 0:
		return printRunTags(ctx, w, db, q.tagsRunID)
	default:
		return printRuns(ctx, w, db, q.dumpName, q.limit)
	}
}

// printRuns lists recorded runs, newest first.
func printRuns(ctx context.Context, w io.Writer, db *database.RunDB, dumpName string, limit int) error {
	runs, err := db.ListRuns(ctx, dumpName, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-19s  %-9s  %6s  %6s  %8s\n",
		"ID", "DUMP", "STARTED", "DURATION", "PAGES", "SKIP", "WARNINGS")
	for _, run := range runs {
		warnings := 0
		for _, n := range run.Warnings {
			warnings += n
		}
		fmt.Fprintf(w, "%-4d  %-20s  %-19s  %-9s  %6d  %6d  %8d\n",
			run.ID,
			run.DumpName,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration().Round(time.Second),
			run.PagesWritten,
			run.RedirectsSkipped,
			warnings,
		)
	}
	return nil
}

// printRunTags prints the per-tag page counts of one run.
func printRunTags(ctx context.Context, w io.Writer, db *database.RunDB, runID int64) error {
	tags, err := db.GetRunTags(ctx, runID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Fprintf(w, "No tags recorded for run %d.\n", runID)
		return nil
	}

	fmt.Fprintf(w, "%-30s  %5s\n", "TAG", "PAGES")
	for _, tc := range tags {
		fmt.Fprintf(w, "%-30s  %5d\n", tc.Tag, tc.PageCount)
	}
	return nil
}

// printDumps lists the dump names with recorded runs.
func printDumps(ctx context.Context, w io.Writer, db *database.RunDB) error {
	dumps, err := db.ListDumps(ctx)
	if err != nil {
		return err
	}
	if len(dumps) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	for _, name := range dumps {
		fmt.Fprintln(w, name)
	}
	return nil
}
