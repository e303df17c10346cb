package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type ExpenseRepo struct {
	pool *pgxpool.Pool
}

func NewExpenseRepo(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *models.Expense) error {
	e.ID = uuid.New()
	query := `
		INSERT INTO expenses (id, user_id, amount, category, description, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		e.ID, e.UserID, e.Amount, e.Category, e.Description, e.SpentAt,
	).Scan(&e.CreatedAt)
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	e := &models.Expense{}
	query := `SELECT id, user_id, amount, category, description, spent_at, created_at
		FROM expenses WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.SpentAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExpenseRepo) ListByUser(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]*models.Expense, error) {
	query := `SELECT id, user_id, amount, category, description, spent_at, created_at
		FROM expenses
		WHERE user_id = $1 AND spent_at >= $2 AND spent_at <= $3
		ORDER BY spent_at DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.SpentAt, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	return err
}

// MonthTotal sums a user's spend for the month containing the given date.
func (r *ExpenseRepo) MonthTotal(ctx context.Context, userID uuid.UUID, in time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE user_id = $1 AND date_trunc('month', spent_at) = date_trunc('month', $2::date)`,
		userID, in,
	).Scan(&total)
	return total, err
}
