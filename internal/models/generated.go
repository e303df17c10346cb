package models

import (
	"time"

	"github.com/google/uuid"
)

type GeneratedQuestion struct {
	ID           uuid.UUID `json:"id"`
	ModuleID     uuid.UUID `json:"module_id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	IsMostLikely bool      `json:"is_most_likely"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

type GeneratedFlashcard struct {
	ID        uuid.UUID `json:"id"`
	ModuleID  uuid.UUID `json:"module_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
