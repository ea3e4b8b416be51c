package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	status        VARCHAR(16)      NOT NULL,
	price         DOUBLE PRECISION NOT NULL,
	original_path TEXT             NOT NULL,
	images        JSONB            NOT NULL DEFAULT '[]',
	error_message TEXT             NULL,
	created_at    TIMESTAMPTZ      NOT NULL,
	updated_at    TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tasks_status_created_at ON tasks (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tasks_status_updated_at ON tasks (status, updated_at DESC);

CREATE TABLE IF NOT EXISTS images (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	task_id     UUID        NOT NULL,
	name        TEXT        NOT NULL,
	mime_type   TEXT        NOT NULL,
	resolution  VARCHAR(16) NOT NULL,
	fingerprint CHAR(32)    NOT NULL,
	path        TEXT        NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_images_task_id ON images (task_id);
CREATE INDEX IF NOT EXISTS idx_images_fingerprint ON images (fingerprint);
`

func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
