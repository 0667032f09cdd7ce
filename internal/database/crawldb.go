package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// FileName is the name of the journal database inside its directory.
const FileName = "mirrorcrawl.db"

var (
	// ErrRunNotFound is returned when no run matches the given ID.
	ErrRunNotFound = errors.New("crawl run not found")

	// ErrAmbiguousRunID is returned when an ID prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")
)

// CrawlDB is the crawl journal: one row per run and one row per fetched URL.
// It is written while a crawl is in progress and read by the history
// command. It is never consulted to resume a crawl.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so history can be read while
	// a crawl is writing.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the journal in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		// mode=rw keeps sqlite from creating a new, empty file.
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl. summary_json is filled when the run finishes.
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		target_host TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		visited INTEGER DEFAULT 0,
		pages INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0,
		interrupted INTEGER DEFAULT 0,
		summary_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per dispatched URL, seed included (iteration 0).
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		iteration INTEGER NOT NULL,
		url TEXT NOT NULL,
		status_code INTEGER,
		content_hash TEXT,
		links INTEGER DEFAULT 0,
		error_kind TEXT,
		error TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_run ON fetches(run_id);
	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// StartRun inserts the run row before the first fetch is recorded.
func (cdb *CrawlDB) StartRun(ctx context.Context, run *model.CrawlRun) error {
	query := `
	INSERT INTO runs (id, seed, target_host, output_dir, started_at)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := cdb.db.ExecContext(ctx, query,
		run.ID,
		run.Seed,
		run.TargetHost,
		run.OutputDir,
		formatTimestamp(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordFetch appends one fetch outcome to the journal.
// A zero Timestamp is replaced with the current time.
func (cdb *CrawlDB) RecordFetch(ctx context.Context, rec *model.FetchRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	query := `
	INSERT INTO fetches (run_id, iteration, url, status_code, content_hash, links, error_kind, error, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := cdb.db.ExecContext(ctx, query,
		rec.RunID,
		rec.Iteration,
		rec.URL,
		rec.StatusCode,
		rec.ContentHash,
		rec.Links,
		rec.ErrorKind,
		rec.Error,
		formatTimestamp(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch of %s: %w", rec.URL, err)
	}
	return nil
}

// FinishRun stores the final counters and the full summary of a run.
func (cdb *CrawlDB) FinishRun(ctx context.Context, summary *model.CrawlSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	UPDATE runs
	SET finished_at = ?, visited = ?, pages = ?, failures = ?, interrupted = ?, summary_json = ?
	WHERE id = ?
	`
	result, err := cdb.db.ExecContext(ctx, query,
		formatTimestamp(summary.FinishedAt),
		summary.Visited,
		summary.Pages,
		summary.FailureCount(),
		summary.Interrupted,
		string(summaryJSON),
		summary.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", summary.RunID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", summary.RunID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, summary.RunID)
	}
	return nil
}

const runColumns = `id, seed, target_host, output_dir, started_at, finished_at, visited, pages, failures, interrupted`

// ListRuns returns the most recent runs first.
// A limit <= 0 returns every run.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]model.CrawlRun, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.CrawlRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose ID starts with idPrefix.
// Short prefixes work as long as they are unambiguous.
func (cdb *CrawlDB) GetRun(ctx context.Context, idPrefix string) (*model.CrawlRun, error) {
	if idPrefix == "" {
		return nil, ErrRunNotFound
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`
	rows, err := cdb.db.QueryContext(ctx, query, len(idPrefix), idPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var found []*model.CrawlRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, idPrefix)
	}
}

// GetRunSummary returns the stored summary of a finished run.
func (cdb *CrawlDB) GetRunSummary(ctx context.Context, runID string) (*model.CrawlSummary, error) {
	var summaryJSON sql.NullString
	err := cdb.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, runID).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run summary: %w", err)
	}
	if !summaryJSON.Valid {
		return nil, fmt.Errorf("run %s has not finished", runID)
	}

	var summary model.CrawlSummary
	if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return &summary, nil
}

// GetRunFetches returns the fetches of a run in the order they were recorded.
func (cdb *CrawlDB) GetRunFetches(ctx context.Context, runID string) ([]model.FetchRecord, error) {
	query := `
	SELECT run_id, iteration, url, status_code, content_hash, links, error_kind, error, timestamp
	FROM fetches
	WHERE run_id = ?
	ORDER BY id
	`
	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetches: %w", err)
	}
	defer rows.Close()

	var records []model.FetchRecord
	for rows.Next() {
		var (
			rec       model.FetchRecord
			hash      sql.NullString
			errorKind sql.NullString
			errMsg    sql.NullString
			timestamp string
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.Iteration,
			&rec.URL,
			&rec.StatusCode,
			&hash,
			&rec.Links,
			&errorKind,
			&errMsg,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch: %w", err)
		}
		rec.ContentHash = hash.String
		rec.ErrorKind = errorKind.String
		rec.Error = errMsg.String
		rec.Timestamp = parseTimestamp(timestamp)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanRun reads one row selected with runColumns.
func scanRun(rows *sql.Rows) (*model.CrawlRun, error) {
	var (
		run        model.CrawlRun
		startedAt  string
		finishedAt sql.NullString
	)
	if err := rows.Scan(
		&run.ID,
		&run.Seed,
		&run.TargetHost,
		&run.OutputDir,
		&startedAt,
		&finishedAt,
		&run.Visited,
		&run.Pages,
		&run.Failures,
		&run.Interrupted,
	); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTimestamp(finishedAt.String)
	}
	return &run, nil
}

// timestampLayout has a fixed width so that text ordering is time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats lists the formats parseTimestamp accepts, most specific first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time if no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
