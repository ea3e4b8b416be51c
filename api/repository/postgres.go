package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"imageResizer/api/database"
	"imageResizer/api/models"
)

const taskColumns = `id::text, status, price, original_path, images, error_message, created_at, updated_at`

type PostgresTaskRepo struct {
	db *database.DB
}

func NewPostgresTaskRepo(db *database.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

func (r *PostgresTaskRepo) Save(ctx context.Context, task models.Task) (models.Task, error) {
	images, err := json.Marshal(nonNilImages(task.Images))
	if err != nil {
		return models.Task{}, err
	}

	query := `
		INSERT INTO tasks (status, price, original_path, images, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`

	// Postgres keeps microseconds; truncate so the returned value matches a reload.
	saved := task.Clone()
	saved.CreatedAt = saved.CreatedAt.Truncate(time.Microsecond)
	saved.UpdatedAt = saved.UpdatedAt.Truncate(time.Microsecond)
	err = r.db.Pool.QueryRow(ctx, query,
		string(saved.Status),
		saved.Price,
		saved.OriginalPath,
		images,
		nullableString(saved.Error),
		saved.CreatedAt,
		saved.UpdatedAt,
	).Scan(&saved.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}

	return saved, nil
}

func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	row := r.db.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (r *PostgresTaskRepo) Update(ctx context.Context, task models.Task) (models.Task, error) {
	if _, err := uuid.Parse(task.ID); err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	images, err := json.Marshal(nonNilImages(task.Images))
	if err != nil {
		return models.Task{}, err
	}

	query := `
		UPDATE tasks
		SET status = $1, images = $2, error_message = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`

	result, err := r.db.Pool.Exec(ctx, query,
		string(task.Status),
		images,
		nullableString(task.Error),
		task.UpdatedAt,
		task.ID,
		string(models.StatusPending),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists); err != nil {
			return models.Task{}, fmt.Errorf("update task: %w", err)
		}
		if !exists {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, ErrTaskNotPending
	}

	return task.Clone(), nil
}

func (r *PostgresTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresTaskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
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

type PostgresImageRepo struct {
	db *database.DB
}

func NewPostgresImageRepo(db *database.DB) *PostgresImageRepo {
	return &PostgresImageRepo{db: db}
}

const imageColumns = `id::text, task_id::text, name, mime_type, resolution, fingerprint, path, created_at`

func (r *PostgresImageRepo) Save(ctx context.Context, image models.Image) (models.Image, error) {
	query := `
		INSERT INTO images (task_id, name, mime_type, resolution, fingerprint, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`

	err := r.db.Pool.QueryRow(ctx, query,
		image.TaskID,
		image.Name,
		image.MimeType,
		image.Resolution,
		image.Fingerprint,
		image.Path,
		image.CreatedAt,
	).Scan(&image.ID)
	if err != nil {
		return models.Image{}, fmt.Errorf("save image: %w", err)
	}
	return image, nil
}

func (r *PostgresImageRepo) FindByID(ctx context.Context, id string) (models.Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Image{}, ErrImageNotFound
	}

	row := r.db.Pool.QueryRow(ctx, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id)
	image, err := scanImage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, fmt.Errorf("find image: %w", err)
	}
	return image, nil
}

func (r *PostgresImageRepo) FindByTaskID(ctx context.Context, taskID string) ([]models.Image, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, nil
	}

	rows, err := r.db.Pool.Query(ctx, `SELECT `+imageColumns+` FROM images WHERE task_id = $1 ORDER BY created_at ASC`, taskID)
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

func (r *PostgresImageRepo) DeleteByTaskID(ctx context.Context, taskID string) (int64, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return 0, nil
	}
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM images WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}
	return result.RowsAffected(), nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows and *sql.Row / *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task     models.Task
		status   string
		images   []byte
		errorMsg *string
	)
	if err := row.Scan(
		&task.ID,
		&status,
		&task.Price,
		&task.OriginalPath,
		&images,
		&errorMsg,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return models.Task{}, err
	}

	task.Status = models.TaskStatus(status)
	if errorMsg != nil {
		task.Error = *errorMsg
	}
	task.Images = []models.TaskImage{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &task.Images); err != nil {
			return models.Task{}, fmt.Errorf("decode images: %w", err)
		}
	}
	return task, nil
}

func scanImage(row rowScanner) (models.Image, error) {
	var image models.Image
	err := row.Scan(
		&image.ID,
		&image.TaskID,
		&image.Name,
		&image.MimeType,
		&image.Resolution,
		&image.Fingerprint,
		&image.Path,
		&image.CreatedAt,
	)
	return image, err
}

func nonNilImages(images []models.TaskImage) []models.TaskImage {
	if images == nil {
		return []models.TaskImage{}
	}
	return images
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
