package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type GeneratedRepo struct {
	pool *pgxpool.Pool
}

func NewGeneratedRepo(pool *pgxpool.Pool) *GeneratedRepo {
	return &GeneratedRepo{pool: pool}
}

// ReplaceForModule makes the supplied rows the module's current generated
// content. The delete+insert and the module summary/status update commit
// atomically, so a failed run never leaves the module half-replaced.
func (r *GeneratedRepo) ReplaceForModule(
	ctx context.Context,
	moduleID uuid.UUID,
	questions []models.GeneratedQuestion,
	flashcards []models.GeneratedFlashcard,
	summary string,
	degraded bool,
) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM generated_questions WHERE module_id = $1", moduleID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM generated_flashcards WHERE module_id = $1", moduleID); err != nil {
		return err
	}

	for i, q := range questions {
		_, err := tx.Exec(ctx, `
			INSERT INTO generated_questions (id, module_id, question, answer, is_most_likely, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), moduleID, q.Question, q.Answer, q.IsMostLikely, i,
		)
		if err != nil {
			return err
		}
	}

	for i, c := range flashcards {
		_, err := tx.Exec(ctx, `
			INSERT INTO generated_flashcards (id, module_id, front, back, position)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), moduleID, c.Front, c.Back, i,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE modules SET summary = $1, status = $2, degraded = $3, updated_at = NOW()
		WHERE id = $4`,
		summary, models.ModuleStatusReady, degraded, moduleID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *GeneratedRepo) ListQuestions(ctx context.Context, moduleID uuid.UUID) ([]models.GeneratedQuestion, error) {
	query := `SELECT id, module_id, question, answer, is_most_likely, position, created_at
		FROM generated_questions WHERE module_id = $1 ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.GeneratedQuestion
	for rows.Next() {
		q := models.GeneratedQuestion{}
		err := rows.Scan(&q.ID, &q.ModuleID, &q.Question, &q.Answer, &q.IsMostLikely, &q.Position, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *GeneratedRepo) ListFlashcards(ctx context.Context, moduleID uuid.UUID) ([]models.GeneratedFlashcard, error) {
	query := `SELECT id, module_id, front, back, position, created_at
		FROM generated_flashcards WHERE module_id = $1 ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.GeneratedFlashcard
	for rows.Next() {
		c := models.GeneratedFlashcard{}
		err := rows.Scan(&c.ID, &c.ModuleID, &c.Front, &c.Back, &c.Position, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
