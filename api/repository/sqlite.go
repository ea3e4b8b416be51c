package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"imageResizer/api/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id            VARCHAR(36) PRIMARY KEY,
	status        VARCHAR(16) NOT NULL,
	price         REAL        NOT NULL,
	original_path TEXT        NOT NULL,
	images        TEXT        NOT NULL DEFAULT '[]',
	error_message TEXT        NULL,
	created_at    DATETIME    NOT NULL,
	updated_at    DATETIME    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tasks_status_created_at ON tasks (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tasks_status_updated_at ON tasks (status, updated_at DESC);

CREATE TABLE IF NOT EXISTS images (
	id          VARCHAR(36) PRIMARY KEY,
	task_id     VARCHAR(36) NOT NULL,
	name        TEXT        NOT NULL,
	mime_type   TEXT        NOT NULL,
	resolution  VARCHAR(16) NOT NULL,
	fingerprint CHAR(32)    NOT NULL,
	path        TEXT        NOT NULL,
	created_at  DATETIME    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_images_task_id ON images (task_id);
CREATE INDEX IF NOT EXISTS idx_images_fingerprint ON images (fingerprint);
`

// sqlitePragmas apply to every connection. busy_timeout covers a second
// process (the worker) writing the same file.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// OpenSQLite opens an embedded database and applies the schema. Writes are
// serialized through a single connection.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

type SQLiteTaskRepo struct {
	db *sql.DB
}

func NewSQLiteTaskRepo(db *sql.DB) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Save(ctx context.Context, task models.Task) (models.Task, error) {
	images, err := json.Marshal(nonNilImages(task.Images))
	if err != nil {
		return models.Task{}, err
	}

	saved := task.Clone()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}

	query := `INSERT INTO tasks (id, status, price, original_path, images, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		saved.ID,
		string(saved.Status),
		saved.Price,
		saved.OriginalPath,
		string(images),
		nullableString(saved.Error),
		saved.CreatedAt.UTC(),
		saved.UpdatedAt.UTC(),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}
	return saved, nil
}

func (r *SQLiteTaskRepo) FindByID(ctx context.Context, id string) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, status, price, original_path, images, error_message, created_at, updated_at FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, task models.Task) (models.Task, error) {
	images, err := json.Marshal(nonNilImages(task.Images))
	if err != nil {
		return models.Task{}, err
	}

	query := `UPDATE tasks SET status = ?, images = ?, error_message = ?, updated_at = ?
		WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(task.Status),
		string(images),
		nullableString(task.Error),
		task.UpdatedAt.UTC(),
		task.ID,
		string(models.StatusPending),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, task.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		if err != nil {
			return models.Task{}, fmt.Errorf("update task: %w", err)
		}
		return models.Task{}, ErrTaskNotPending
	}
	return task.Clone(), nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected > 0, nil
}

func (r *SQLiteTaskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, status, price, original_path, images, error_message, created_at, updated_at FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("find tasks: %w", err)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

type SQLiteImageRepo struct {
	db *sql.DB
}

func NewSQLiteImageRepo(db *sql.DB) *SQLiteImageRepo {
	return &SQLiteImageRepo{db: db}
}

func (r *SQLiteImageRepo) Save(ctx context.Context, image models.Image) (models.Image, error) {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}

	query := `INSERT INTO images (id, task_id, name, mime_type, resolution, fingerprint, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		image.ID,
		image.TaskID,
		image.Name,
		image.MimeType,
		image.Resolution,
		image.Fingerprint,
		image.Path,
		image.CreatedAt.UTC(),
	)
	if err != nil {
		return models.Image{}, fmt.Errorf("save image: %w", err)
	}
	return image, nil
}

func (r *SQLiteImageRepo) FindByID(ctx context.Context, id string) (models.Image, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, task_id, name, mime_type, resolution, fingerprint, path, created_at FROM images WHERE id = ?`, id)
	image, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, fmt.Errorf("find image: %w", err)
	}
	return image, nil
}

func (r *SQLiteImageRepo) FindByTaskID(ctx context.Context, taskID string) ([]models.Image, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, task_id, name, mime_type, resolution, fingerprint, path, created_at FROM images WHERE task_id = ? ORDER BY rowid ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}
	defer rows.Close()

	var out []models.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("find images: %w", err)
		}
		out = append(out, image)
	}
	return out, rows.Err()
}

func (r *SQLiteImageRepo) DeleteByTaskID(ctx context.Context, taskID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE task_id = ?`, taskID)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}
	return result.RowsAffected()
}
