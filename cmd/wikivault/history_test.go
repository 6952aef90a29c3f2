package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikivault/internal/database"
	"github.com/nao1215/wikivault/internal/model"
)

// seedHistory creates a run database in dir with two recorded runs.
func seedHistory(t *testing.T, dir string) int64 {
	t.Helper()

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	runID, err := db.SaveRun(ctx, &model.RunSummary{
		DumpName:     "wiki.xml",
		OutputDir:    "vault",
		StartedAt:    base,
		FinishedAt:   base.Add(time.Minute),
		PagesWritten: 12,
		TagCounts:    map[string]int{"characters": 9, "places": 3},
	})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if _, err := db.SaveRun(ctx, &model.RunSummary{
		DumpName:     "other.xml",
		OutputDir:    "vault2",
		StartedAt:    base.Add(time.Hour),
		FinishedAt:   base.Add(time.Hour + time.Minute),
		PagesWritten: 4,
	}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	return runID
}

// TestRunHistoryListRuns tests the default run listing.
func TestRunHistoryListRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seedHistory(t, dir)

	var buf strings.Builder
	if err := runHistory(context.Background(), &buf, dir, historyQuery{}); err != nil {
		t.Fatalf("runHistory: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "wiki.xml") || !strings.Contains(out, "other.xml") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "DUMP") {
		t.Errorf("header missing: %q", out)
	}
}

// TestRunHistoryFilterByDump tests filtering runs by dump name.
func TestRunHistoryFilterByDump(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seedHistory(t, dir)

	var buf strings.Builder
	if err := runHistory(context.Background(), &buf, dir, historyQuery{dumpName: "wiki.xml"}); err != nil {
		t.Fatalf("runHistory: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "wiki.xml") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "other.xml") {
		t.Errorf("filter ignored: %q", out)
	}
}

// TestRunHistoryTags tests the per-run tag view.
func TestRunHistoryTags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runID := seedHistory(t, dir)

	var buf strings.Builder
	if err := runHistory(context.Background(), &buf, dir, historyQuery{tagsRunID: runID}); err != nil {
		t.Fatalf("runHistory: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "characters") || !strings.Contains(out, "places") {
		t.Errorf("output = %q", out)
	}
}

// TestRunHistoryListDumps tests the dump name listing.
func TestRunHistoryListDumps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seedHistory(t, dir)

	var buf strings.Builder
	if err := runHistory(context.Background(), &buf, dir, historyQuery{listDumps: true}); err != nil {
		t.Fatalf("runHistory: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "wiki.xml") || !strings.Contains(out, "other.xml") {
		t.Errorf("output = %q", out)
	}
}

// TestRunHistoryNoDatabase tests the error when no runs were recorded.
func TestRunHistoryNoDatabase(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	if err := runHistory(context.Background(), &buf, t.TempDir(), historyQuery{}); err == nil {
		t.Error("expected error when the database does not exist")
	}
}
