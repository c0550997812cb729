package dispatchlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lendwire/internal/config"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; the log is disposable, so a mismatch just means delete the file.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists delivery attempts backed by SQLite. It implements
// notifications.AttemptSink.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded delivery attempt.
type Entry struct {
	ID        int64
	RequestID string
	Event     request.EventKind
	Tier      tier.Tier
	Outcome   string
	Detail    string
	At        time.Time
}

// Open initializes or connects to the dispatch log database under the
// configured data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Server.DataDir, "dispatchlog.db"))
}

// OpenPath opens the dispatch log at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
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
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordAttempt appends one delivery attempt to the log.
func (s *Store) RecordAttempt(ctx context.Context, attempt notifications.Attempt) error {
	at := attempt.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO delivery_attempts (request_id, event, tier, outcome, detail, attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.RequestID, string(attempt.Event), string(attempt.Tier),
		attempt.Outcome, attempt.Detail, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert delivery attempt: %w", err)
	}
	return nil
}

// Recent returns the latest delivery attempts, newest first. A non-positive
// limit defaults to 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, event, tier, outcome, detail, attempted_at
		 FROM delivery_attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query delivery attempts: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForRequest returns all delivery attempts for one request, newest first.
func (s *Store) ForRequest(ctx context.Context, requestID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, event, tier, outcome, detail, attempted_at
		 FROM delivery_attempts WHERE request_id = ? ORDER BY id DESC`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query delivery attempts: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// OutcomeCounts aggregates attempts by outcome across the whole log.
func (s *Store) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT outcome, COUNT(1) FROM delivery_attempts GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[outcome] = count
	}
	return counts, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var event, tierName, attemptedAt string
		if err := rows.Scan(&entry.ID, &entry.RequestID, &event, &tierName,
			&entry.Outcome, &entry.Detail, &attemptedAt); err != nil {
			return nil, fmt.Errorf("scan delivery attempt: %w", err)
		}
		entry.Event = request.EventKind(event)
		entry.Tier = tier.Tier(tierName)
		parsed, err := time.Parse(time.RFC3339Nano, attemptedAt)
		if err != nil {
			return nil, fmt.Errorf("parse attempt timestamp %q: %w", attemptedAt, err)
		}
		entry.At = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
