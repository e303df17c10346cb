package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Notes       *string    `json:"notes"`
	DueAt       *time.Time `json:"due_at"`
	IsCompleted bool       `json:"is_completed"`
	RemindedAt  *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateTaskRequest struct {
	Title string     `json:"title"`
	Notes *string    `json:"notes"`
	DueAt *time.Time `json:"due_at"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Notes       *string    `json:"notes"`
	DueAt       *time.Time `json:"due_at"`
	IsCompleted *bool      `json:"is_completed"`
}
