package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type CitationRepo struct {
	pool *pgxpool.Pool
}

func NewCitationRepo(pool *pgxpool.Pool) *CitationRepo {
	return &CitationRepo{pool: pool}
}

func (r *CitationRepo) Create(ctx context.Context, c *models.Citation) error {
	c.ID = uuid.New()
	query := `
		INSERT INTO citations (id, user_id, style, source_url, formatted)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.UserID, c.Style, c.SourceURL, c.Formatted,
	).Scan(&c.CreatedAt)
}

func (r *CitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Citation, error) {
	c := &models.Citation{}
	query := `SELECT id, user_id, style, source_url, formatted, created_at
		FROM citations WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Style, &c.SourceURL, &c.Formatted, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CitationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Citation, error) {
	query := `SELECT id, user_id, style, source_url, formatted, created_at
		FROM citations WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var citations []*models.Citation
	for rows.Next() {
		c := &models.Citation{}
		err := rows.Scan(&c.ID, &c.UserID, &c.Style, &c.SourceURL, &c.Formatted, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		citations = append(citations, c)
	}
	return citations, rows.Err()
}

func (r *CitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM citations WHERE id = $1", id)
	return err
}
