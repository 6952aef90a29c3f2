package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wikivault/internal/model"
)

// RunDB provides SQLite-based storage for conversion run history.
//
// Design decision: We use a single database file shared by all dumps
// rather than one file per dump. History queries across dumps stay a
// single-table scan, and backup is one file copy.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned instead of silently creating an empty history.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "wikivault.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("run database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per completed conversion
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dump_name TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		pages_written INTEGER NOT NULL DEFAULT 0,
		redirects_skipped INTEGER NOT NULL DEFAULT 0,
		indexes_written INTEGER NOT NULL DEFAULT 0,
		images_fetched INTEGER NOT NULL DEFAULT 0,
		image_failures INTEGER NOT NULL DEFAULT 0,
		warnings_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dump ON runs(dump_name);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Run tags store the per-tag page counts of one run
	CREATE TABLE IF NOT EXISTS run_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		tag TEXT NOT NULL,
		page_count INTEGER NOT NULL DEFAULT 0,
		UNIQUE(run_id, tag)
	);

	CREATE INDEX IF NOT EXISTS idx_run_tags_run ON run_tags(run_id);
	CREATE INDEX IF NOT EXISTS idx_run_tags_tag ON run_tags(tag);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is one stored conversion run.
type RunRecord struct {
	ID               int64
	DumpName         string
	OutputDir        string
	StartedAt        time.Time
	FinishedAt       time.Time
	PagesWritten     int
	RedirectsSkipped int
	IndexesWritten   int
	ImagesFetched    int
	ImageFailures    int
	Warnings         map[string]int
}

// Duration returns the wall-clock duration of the stored run.
func (r *RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SaveRun stores a completed run and its per-tag page counts in a
// single transaction. It returns the new run ID.
func (rdb *RunDB) SaveRun(ctx context.Context, summary *model.RunSummary) (int64, error) {
	warningsJSON, err := json.Marshal(summary.Warnings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize warnings: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (dump_name, output_dir, started_at, finished_at,
		pages_written, redirects_skipped, indexes_written,
		images_fetched, image_failures, warnings_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.DumpName,
		summary.OutputDir,
		summary.StartedAt.UTC().Format(time.RFC3339),
		summary.FinishedAt.UTC().Format(time.RFC3339),
		summary.PagesWritten,
		summary.RedirectsSkipped,
		summary.IndexesWritten,
		summary.ImagesFetched,
		summary.ImageFailures,
		string(warningsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for tag, count := range summary.TagCounts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_tags (run_id, tag, page_count) VALUES (?, ?, ?)",
			runID, tag, count); err != nil {
			return 0, fmt.Errorf("failed to insert run tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first. A dumpName of "" lists
// runs for every dump; limit <= 0 means no limit.
func (rdb *RunDB) ListRuns(ctx context.Context, dumpName string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, dump_name, output_dir, started_at, finished_at,
		pages_written, redirects_skipped, indexes_written,
		images_fetched, image_failures, warnings_json
	FROM runs`
	args := make([]any, 0, 2)
	if dumpName != "" {
		query += " WHERE dump_name = ?"
		args = append(args, dumpName)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var records []RunRecord
	for rows.Next() {
		var (
			record       RunRecord
			startedAt    string
			finishedAt   string
			warningsJSON sql.NullString
		)
		if err := rows.Scan(
			&record.ID,
			&record.DumpName,
			&record.OutputDir,
			&startedAt,
			&finishedAt,
			&record.PagesWritten,
			&record.RedirectsSkipped,
			&record.IndexesWritten,
			&record.ImagesFetched,
			&record.ImageFailures,
			&warningsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		record.StartedAt = parseTimestamp(startedAt)
		record.FinishedAt = parseTimestamp(finishedAt)
		if warningsJSON.Valid && warningsJSON.String != "" && warningsJSON.String != "null" {
			if err := json.Unmarshal([]byte(warningsJSON.String), &record.Warnings); err != nil {
				return nil, fmt.Errorf("failed to parse warnings for run %d: %w", record.ID, err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

// GetRunTags returns the per-tag page counts of one run, ordered by
// descending count then tag name.
func (rdb *RunDB) GetRunTags(ctx context.Context, runID int64) ([]TagCount, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT tag, page_count FROM run_tags
	WHERE run_id = ?
	ORDER BY page_count DESC, tag ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run tags: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var counts []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.PageCount); err != nil {
			return nil, fmt.Errorf("failed to scan run tag: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run tags: %w", err)
	}
	return counts, nil
}

// TagCount is one tag with its page count in a run.
type TagCount struct {
	Tag       string
	PageCount int
}

// ListDumps returns the distinct dump names with stored runs, ordered
// by most recent run first.
func (rdb *RunDB) ListDumps(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT dump_name FROM runs
	GROUP BY dump_name
	ORDER BY MAX(started_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dumps: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var dumps []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dump name: %w", err)
		}
		dumps = append(dumps, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dumps: %w", err)
	}
	return dumps, nil
}

// timestampFormats lists the layouts SQLite may hand back depending on
// how the value was stored.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
