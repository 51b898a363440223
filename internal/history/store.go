package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rcrdr/internal/config"
)

// Store persists job records backed by SQLite.
type Store struct {
	db        *sql.DB
	path      string
	retention int
}

// Record is one persisted job: its parameters at request time plus the last
// observed status and failure reason.
type Record struct {
	ID         int64
	Token      string
	Kind       string
	OutputPath string
	InputPath  string
	Status     string
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Open initializes or connects to the history database in the configured log
// directory.
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
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, retention: cfg.Workflow.HistoryRetentionLimit}
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts a new job record and returns it with its assigned ID.
func (s *Store) Add(ctx context.Context, token, kind, outputPath, inputPath, status string) (*Record, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO job_records (token, kind, output_path, input_path, status, reason, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		token,
		kind,
		outputPath,
		nullableString(inputPath),
		status,
		nil,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		return nil, err
	}

	rec := s.GetByToken(ctx, token)
	if rec == nil {
		return nil, fmt.Errorf("job record %d not found after insert", id)
	}
	return rec, nil
}

// UpdateStatus records a status change for the job identified by token. The
// reason is stored only for failure statuses; passing an empty reason clears
// any previous one.
func (s *Store) UpdateStatus(ctx context.Context, token, status, reason string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE job_records SET status = ?, reason = ?, updated_at = ? WHERE token = ?`,
		status,
		nullableString(reason),
		timestamp,
		token,
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// GetByToken returns the record for the given token, or nil when absent.
func (s *Store) GetByToken(ctx context.Context, token string) *Record {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, token, kind, output_path, input_path, status, reason, created_at, updated_at
         FROM job_records WHERE token = ?`,
		token,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil
	}
	return rec
}

// List returns up to limit records, most recent first. A limit of zero or
// less means no limit beyond the retention cap.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT id, token, kind, output_path, input_path, status, reason, created_at, updated_at
              FROM job_records ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job records: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, 16)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job records: %w", err)
	}
	return records, nil
}

// prune trims the table down to the retention limit, discarding the oldest
// records first.
func (s *Store) prune(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM job_records WHERE id NOT IN (
            SELECT id FROM job_records ORDER BY created_at DESC, id DESC LIMIT ?
         )`,
		s.retention,
	)
	if err != nil {
		return fmt.Errorf("prune job records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		inputPath sql.NullString
		reason    sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Token,
		&rec.Kind,
		&rec.OutputPath,
		&inputPath,
		&rec.Status,
		&reason,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan job record: %w", err)
	}
	rec.InputPath = inputPath.String
	rec.Reason = reason.String
	rec.CreatedAt = parseTimestamp(createdAt)
	rec.UpdatedAt = parseTimestamp(updatedAt)
	return &rec, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
