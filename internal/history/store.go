package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MLShukai/obs-rec/internal/config"
)

// Store manages capture-cycle persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
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

// Path returns the on-disk location of the database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NewCycle inserts a cycle record for a capture that is starting now.
func (s *Store) NewCycle(ctx context.Context, runID string) (*Cycle, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO capture_cycles (run_id, status, created_at, updated_at)
         VALUES (?, ?, ?, ?)`,
		runID,
		StatusRecording,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cycle: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update persists the mutable fields of the cycle.
func (s *Store) Update(ctx context.Context, cycle *Cycle) error {
	if cycle == nil {
		return errors.New("cycle is required")
	}
	if !cycle.Status.Valid() {
		return fmt.Errorf("unknown cycle status %q", cycle.Status)
	}

	cycle.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE capture_cycles
         SET status = ?, artifact_path = ?, published_path = ?,
             artifact_bytes = ?, published_bytes = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		cycle.Status,
		cycle.ArtifactPath,
		cycle.PublishedPath,
		cycle.ArtifactBytes,
		cycle.PublishedBytes,
		cycle.ErrorMessage,
		cycle.UpdatedAt.Format(time.RFC3339Nano),
		cycle.ID,
	)
	if err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cycle %d not found", cycle.ID)
	}
	return nil
}

// GetByID fetches a single cycle.
func (s *Store) GetByID(ctx context.Context, id int64) (*Cycle, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	cycle, err := scanCycle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cycle %d not found", id)
		}
		return nil, fmt.Errorf("get cycle: %w", err)
	}
	return cycle, nil
}

// List returns the most recent cycles, newest first. A limit <= 0 returns
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Cycle, error) {
	query := selectColumns + " ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycles = append(cycles, cycle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

// Clear removes all cycle records and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM capture_cycles")
	if err != nil {
		return 0, fmt.Errorf("clear cycles: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

const selectColumns = `SELECT id, run_id, status, artifact_path, published_path,
    artifact_bytes, published_bytes, error_message, created_at, updated_at
    FROM capture_cycles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCycle(row rowScanner) (*Cycle, error) {
	var cycle Cycle
	var status, createdAt, updatedAt string
	if err := row.Scan(
		&cycle.ID,
		&cycle.RunID,
		&status,
		&cycle.ArtifactPath,
		&cycle.PublishedPath,
		&cycle.ArtifactBytes,
		&cycle.PublishedBytes,
		&cycle.ErrorMessage,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	cycle.Status = Status(status)
	cycle.CreatedAt = parseTimestamp(createdAt)
	cycle.UpdatedAt = parseTimestamp(updatedAt)
	return &cycle, nil
}

func parseTimestamp(raw string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}
