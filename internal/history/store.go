package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the history database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// RunRecord is one persisted run.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	UploadAll  bool
	Scanned    int
	Matched    int
	Uploaded   int
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// BeginRun inserts a new run and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, dryRun, uploadAll bool) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, dry_run, upload_all) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), boolInt(dryRun), boolInt(uploadAll))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordUpload records one successfully uploaded item.
func (s *Store) RecordUpload(ctx context.Context, runID, ratingKey, title, logoPath string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (run_id, rating_key, title, logo_path, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		runID, ratingKey, title, logoPath, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, scanned, matched, uploaded int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, scanned = ?, matched = ?, uploaded = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), scanned, matched, uploaded, runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %q not found", runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), dry_run, upload_all, scanned, matched, uploaded
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var startedAt, finishedAt string
		var dryRun, uploadAll int
		if err := rows.Scan(&record.ID, &startedAt, &finishedAt, &dryRun, &uploadAll,
			&record.Scanned, &record.Matched, &record.Uploaded); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt != "" {
			record.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		}
		record.DryRun = dryRun != 0
		record.UploadAll = uploadAll != 0
		records = append(records, record)
	}
	return records, rows.Err()
}

// RunUploads returns the titles uploaded during one run, in upload order.
func (s *Store) RunUploads(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM uploads WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
