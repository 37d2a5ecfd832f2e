package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xhad/vidnotes/internal/models"

	_ "modernc.org/sqlite"
)

type SQLiteConfig struct {
	Path      string
	TableName string
}

// SQLiteStore is the single-user notes archive kept in a local file.
type SQLiteStore struct {
	config SQLiteConfig
	db     *sql.DB
}

// NewSQLiteStore opens (or creates) the database at config.Path. An empty
// path resolves to ~/.vidnotes/notes.db.
func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	if config.TableName == "" {
		config.TableName = DefaultTableName
	}
	if config.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		config.Path = filepath.Join(home, ".vidnotes", "notes.db")
	}
	if dir := filepath.Dir(config.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	s := &SQLiteStore{config: config, db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			video_id   TEXT PRIMARY KEY,
			notes      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`, s.config.TableName)

	if _, err := s.db.Exec(createTable); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, videoID string) (models.NotesDocument, bool, error) {
	query := fmt.Sprintf(`SELECT notes FROM %s WHERE video_id = ?`, s.config.TableName)

	var body string
	err := s.db.QueryRowContext(ctx, query, videoID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotesDocument{}, false, nil
	}
	if err != nil {
		return models.NotesDocument{}, false, fmt.Errorf("query notes: %w", err)
	}

	return models.NotesDocument{VideoID: videoID, Body: body}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, doc models.NotesDocument) error {
	now := time.Now().UTC().Format(time.RFC3339)
	stmt := fmt.Sprintf(`
		INSERT INTO %s (video_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		s.config.TableName)

	if _, err := s.db.ExecContext(ctx, stmt, doc.VideoID, sanitizeUTF8(doc.Body), now, now); err != nil {
		return fmt.Errorf("store notes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
