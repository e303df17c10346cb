package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	t.ID = uuid.New()
	query := `
		INSERT INTO tasks (id, user_id, title, notes, due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Notes, t.DueAt,
	).Scan(&t.CreatedAt)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t := &models.Task{}
	query := `SELECT id, user_id, title, notes, due_at, is_completed, reminded_at, created_at
		FROM tasks WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt, &t.IsCompleted, &t.RemindedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT id, user_id, title, notes, due_at, is_completed, reminded_at, created_at
		FROM tasks WHERE user_id = $1 ORDER BY due_at ASC NULLS LAST, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt, &t.IsCompleted, &t.RemindedAt, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, t *models.Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title = $1, notes = $2, due_at = $3, is_completed = $4
		WHERE id = $5`,
		t.Title, t.Notes, t.DueAt, t.IsCompleted, t.ID,
	)
	return err
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	return err
}

// ListDueUnreminded returns incomplete tasks due inside [from, until) that
// have not been reminded yet.
func (r *TaskRepo) ListDueUnreminded(ctx context.Context, from, until time.Time) ([]*models.Task, error) {
	query := `SELECT id, user_id, title, notes, due_at, is_completed, reminded_at, created_at
		FROM tasks
		WHERE is_completed = FALSE AND reminded_at IS NULL
		  AND due_at >= $1 AND due_at < $2
		ORDER BY due_at ASC`

	rows, err := r.pool.Query(ctx, query, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt, &t.IsCompleted, &t.RemindedAt, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, "UPDATE tasks SET reminded_at = $1 WHERE id = $2", at, id)
	return err
}
