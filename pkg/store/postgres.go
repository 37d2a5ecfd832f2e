package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/vidnotes/internal/models"
)

type PostgresConfig struct {
	ConnString string
	TableName  string
	MaxConns   int32
}

// PostgresStore archives notes documents in a Postgres table keyed by video ID.
type PostgresStore struct {
	config PostgresConfig
	pool   *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, config PostgresConfig) (*PostgresStore, error) {
	if config.ConnString == "" {
		return nil, errors.New("postgres store requires a connection string")
	}
	if config.TableName == "" {
		config.TableName = DefaultTableName
	}
	if config.MaxConns == 0 {
		config.MaxConns = 4
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = config.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	ps := &PostgresStore{
		config: config,
		pool:   pool,
	}

	if err := ps.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

func (ps *PostgresStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			video_id   TEXT PRIMARY KEY,
			notes      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, ps.config.TableName)

	if _, err := ps.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Get(ctx context.Context, videoID string) (models.NotesDocument, bool, error) {
	query := fmt.Sprintf(`SELECT notes FROM %s WHERE video_id = $1`, ps.config.TableName)

	var body string
	err := ps.pool.QueryRow(ctx, query, videoID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NotesDocument{}, false, nil
	}
	if err != nil {
		return models.NotesDocument{}, false, fmt.Errorf("failed to query notes: %w", err)
	}

	return models.NotesDocument{VideoID: videoID, Body: body}, true, nil
}

func (ps *PostgresStore) Put(ctx context.Context, doc models.NotesDocument) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (video_id, notes, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (video_id) DO UPDATE SET
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		ps.config.TableName)

	if _, err := ps.pool.Exec(ctx, stmt, doc.VideoID, sanitizeUTF8(doc.Body), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store notes: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() {
	if ps.pool != nil {
		ps.pool.Close()
	}
}
