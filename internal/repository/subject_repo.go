package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

// Create inserts the subject and its empty modules in one transaction.
// Modules start pending with no generated content.
func (r *SubjectRepo) Create(ctx context.Context, s *models.Subject) error {
	s.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO subjects (id, user_id, name, exam_type, expected_most_likely, marks_per_question, module_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		s.ID, s.UserID, s.Name, s.ExamType, s.ExpectedMostLikely, s.MarksPerQuestion, s.ModuleCount,
	).Scan(&s.CreatedAt)
	if err != nil {
		return err
	}

	for i := 1; i <= s.ModuleCount; i++ {
		_, err = tx.Exec(ctx, `
			INSERT INTO modules (id, subject_id, user_id, name, ordinal, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), s.ID, s.UserID, fmt.Sprintf("Module %d", i), i, models.ModuleStatusPending,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *SubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	s := &models.Subject{}
	query := `SELECT id, user_id, name, exam_type, expected_most_likely, marks_per_question, module_count, created_at
		FROM subjects WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Name, &s.ExamType, &s.ExpectedMostLikely,
		&s.MarksPerQuestion, &s.ModuleCount, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Subject, error) {
	query := `SELECT id, user_id, name, exam_type, expected_most_likely, marks_per_question, module_count, created_at
		FROM subjects WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.ExamType, &s.ExpectedMostLikely,
			&s.MarksPerQuestion, &s.ModuleCount, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepo) Update(ctx context.Context, s *models.Subject) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subjects SET name = $1, exam_type = $2, expected_most_likely = $3, marks_per_question = $4
		WHERE id = $5`,
		s.Name, s.ExamType, s.ExpectedMostLikely, s.MarksPerQuestion, s.ID,
	)
	return err
}

func (r *SubjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM subjects WHERE id = $1", id)
	return err
}
