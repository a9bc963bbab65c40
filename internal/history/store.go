package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ytfetch/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Status labels a download record's terminal state.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one fetch outcome.
type Record struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	SourceURL string    `json:"source_url"`
	Status    Status    `json:"status"`
	Strategy  string    `json:"strategy,omitempty"`
	Attempts  int       `json:"attempts"`
	Message   string    `json:"message,omitempty"`
	FilePath  string    `json:"file_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages download history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history store requires config")
	}
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

	if _, err := db.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a download outcome and returns it with id and timestamp set.
func (s *Store) Record(ctx context.Context, rec Record) (Record, error) {
	if strings.TrimSpace(rec.VideoID) == "" {
		return Record{}, errors.New("record requires video id")
	}
	if rec.Status != StatusCompleted && rec.Status != StatusFailed {
		return Record{}, fmt.Errorf("unknown status %q", rec.Status)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (
            id, video_id, source_url, status, strategy, attempts, message, file_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.VideoID,
		rec.SourceURL,
		string(rec.Status),
		rec.Strategy,
		rec.Attempts,
		rec.Message,
		rec.FilePath,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert download record: %w", err)
	}
	return rec, nil
}

// Recent returns the newest records, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, video_id, source_url, status, strategy, attempts, message, file_path, created_at
         FROM downloads ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent downloads: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByVideoID returns every record for one video, most recent first.
func (s *Store) ByVideoID(ctx context.Context, videoID string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, video_id, source_url, status, strategy, attempts, message, file_path, created_at
         FROM downloads WHERE video_id = ? ORDER BY created_at DESC`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("query downloads for %s: %w", videoID, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var status, createdAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.VideoID,
			&rec.SourceURL,
			&status,
			&rec.Strategy,
			&rec.Attempts,
			&rec.Message,
			&rec.FilePath,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan download record: %w", err)
		}
		rec.Status = Status(status)
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		rec.CreatedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate download records: %w", err)
	}
	return records, nil
}
