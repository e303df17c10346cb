package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/models"
)

type ModuleRepo struct {
	pool *pgxpool.Pool
}

func NewModuleRepo(pool *pgxpool.Pool) *ModuleRepo {
	return &ModuleRepo{pool: pool}
}

func (r *ModuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	m := &models.Module{}
	query := `SELECT id, subject_id, user_id, name, ordinal, status, summary, degraded, created_at, updated_at
		FROM modules WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.SubjectID, &m.UserID, &m.Name, &m.Ordinal,
		&m.Status, &m.Summary, &m.Degraded, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ModuleRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*models.Module, error) {
	query := `SELECT id, subject_id, user_id, name, ordinal, status, summary, degraded, created_at, updated_at
		FROM modules WHERE subject_id = $1 ORDER BY ordinal ASC`

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*models.Module
	for rows.Next() {
		m := &models.Module{}
		err := rows.Scan(&m.ID, &m.SubjectID, &m.UserID, &m.Name, &m.Ordinal,
			&m.Status, &m.Summary, &m.Degraded, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *ModuleRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE modules SET name = $1, updated_at = NOW() WHERE id = $2", name, id)
	return err
}

func (r *ModuleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE modules SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}

// File operations

func (r *ModuleRepo) AddFile(ctx context.Context, f *models.ModuleFile) error {
	f.ID = uuid.New()
	query := `
		INSERT INTO module_files (id, module_id, user_id, file_path, original_name, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		f.ID, f.ModuleID, f.UserID, f.FilePath, f.OriginalName, f.SizeBytes,
	).Scan(&f.CreatedAt)
}

// ListFiles returns a module's files ordered by creation time ascending, the
// order they are fed to generation.
func (r *ModuleRepo) ListFiles(ctx context.Context, moduleID uuid.UUID) ([]*models.ModuleFile, error) {
	query := `SELECT id, module_id, user_id, file_path, original_name, size_bytes, created_at
		FROM module_files WHERE module_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.ModuleFile
	for rows.Next() {
		f := &models.ModuleFile{}
		err := rows.Scan(&f.ID, &f.ModuleID, &f.UserID, &f.FilePath, &f.OriginalName, &f.SizeBytes, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *ModuleRepo) GetFile(ctx context.Context, fileID uuid.UUID) (*models.ModuleFile, error) {
	f := &models.ModuleFile{}
	query := `SELECT id, module_id, user_id, file_path, original_name, size_bytes, created_at
		FROM module_files WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&f.ID, &f.ModuleID, &f.UserID, &f.FilePath, &f.OriginalName, &f.SizeBytes, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *ModuleRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM module_files WHERE id = $1", fileID)
	return err
}
