package models

import (
	"time"

	"github.com/google/uuid"
)

// Module processing lifecycle.
const (
	ModuleStatusPending    = "pending"
	ModuleStatusProcessing = "processing"
	ModuleStatusReady      = "ready"
	ModuleStatusError      = "error"
)

type Module struct {
	ID        uuid.UUID `json:"id"`
	SubjectID uuid.UUID `json:"subject_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Ordinal   int       `json:"ordinal"`
	Status    string    `json:"status"`
	Summary   *string   `json:"summary"`
	Degraded  bool      `json:"degraded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ModuleFile struct {
	ID           uuid.UUID `json:"id"`
	ModuleID     uuid.UUID `json:"module_id"`
	UserID       uuid.UUID `json:"user_id"`
	FilePath     string    `json:"file_path"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

type RenameModuleRequest struct {
	Name string `json:"name"`
}

type ProcessModuleRequest struct {
	ModuleID  string   `json:"module_id"`
	FilePaths []string `json:"file_paths"`
}
