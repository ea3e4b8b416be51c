package repository

import (
	"context"
	"fmt"

	"imageResizer/api/config"
	"imageResizer/api/database"
)

// Stores bundles the repositories selected by configuration with the
// function releasing their connections.
type Stores struct {
	Tasks  TaskRepository
	Images ImageRepository
	Close  func()
}

func Open(ctx context.Context, cfg config.StorageConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Tasks:  NewPostgresTaskRepo(db),
			Images: NewPostgresImageRepo(db),
			Close:  db.Close,
		}, nil

	case config.StorageSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Tasks:  NewSQLiteTaskRepo(db),
			Images: NewSQLiteImageRepo(db),
			Close:  func() { db.Close() },
		}, nil

	case config.StorageMemory, "":
		return &Stores{
			Tasks:  NewMemoryTaskRepo(),
			Images: NewMemoryImageRepo(),
			Close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
