package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/wikivault/internal/model"
)

func testSummary(dump string, started time.Time) *model.RunSummary {
	return &model.RunSummary{
		DumpName:         dump,
		OutputDir:        "/tmp/vault",
		StartedAt:        started,
		FinishedAt:       started.Add(2 * time.Minute),
		PagesWritten:     42,
		RedirectsSkipped: 3,
		IndexesWritten:   5,
		ImagesFetched:    7,
		ImageFailures:    1,
		Warnings:         map[string]int{"unknown_template": 4},
		TagCounts:        map[string]int{"characters": 30, "places": 12},
	}
}

// TestSaveAndListRuns tests the round trip of a run summary through the
// database.
func TestSaveAndListRuns(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	runID, err := db.SaveRun(ctx, testSummary("wiki.xml", started))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if runID == 0 {
		t.Error("run ID should be nonzero")
	}

	runs, err := db.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, expected 1", len(runs))
	}

	run := runs[0]
	if run.DumpName != "wiki.xml" {
		t.Errorf("DumpName = %q", run.DumpName)
	}
	if run.PagesWritten != 42 || run.RedirectsSkipped != 3 {
		t.Errorf("counters = %+v", run)
	}
	if run.Warnings["unknown_template"] != 4 {
		t.Errorf("Warnings = %v", run.Warnings)
	}
	if !run.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, expected %v", run.StartedAt, started)
	}
	if run.Duration() != 2*time.Minute {
		t.Errorf("Duration = %v", run.Duration())
	}
}

// TestListRunsByDump tests filtering and ordering, newest first.
func TestListRunsByDump(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, dump := range []string{"a.xml", "b.xml", "a.xml"} {
		if _, err := db.SaveRun(ctx, testSummary(dump, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := db.ListRuns(ctx, "a.xml", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs for a.xml, expected 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Error("runs not ordered newest first")
	}

	limited, err := db.ListRuns(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d runs", len(limited))
	}
}

// TestGetRunTags tests that per-tag counts are stored with the run and
// come back ordered by descending count.
func TestGetRunTags(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	runID, err := db.SaveRun(ctx, testSummary("wiki.xml", time.Now()))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	tags, err := db.GetRunTags(ctx, runID)
	if err != nil {
		t.Fatalf("GetRunTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, expected 2", len(tags))
	}
	if tags[0].Tag != "characters" || tags[0].PageCount != 30 {
		t.Errorf("first tag = %+v", tags[0])
	}
	if tags[1].Tag != "places" {
		t.Errorf("second tag = %+v", tags[1])
	}
}

// TestListDumps tests distinct dump listing.
func TestListDumps(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, dump := range []string{"a.xml", "b.xml", "a.xml"} {
		if _, err := db.SaveRun(ctx, testSummary(dump, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	dumps, err := db.ListDumps(ctx)
	if err != nil {
		t.Fatalf("ListDumps: %v", err)
	}
	if len(dumps) != 2 {
		t.Fatalf("got %d dumps, expected 2", len(dumps))
	}
	if dumps[0] != "a.xml" {
		t.Errorf("dumps = %v, expected a.xml first", dumps)
	}
}

// TestOpenRequiresExisting tests that CreateIfNotExists=false refuses a
// missing database.
func TestOpenRequiresExisting(t *testing.T) {
	t.Parallel()

	if _, err := Open(t.TempDir(), Options{CreateIfNotExists: false}); err == nil {
		t.Error("expected error for missing database")
	}
}
