package models

import (
	"time"

	"github.com/google/uuid"
)

type Citation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Style     string    `json:"style"`
	SourceURL *string   `json:"source_url"`
	Formatted string    `json:"formatted"`
	CreatedAt time.Time `json:"created_at"`
}

type GenerateCitationRequest struct {
	Style     string  `json:"style"` // "apa" | "mla" | "chicago" | "harvard"
	Title     string  `json:"title"`
	Authors   string  `json:"authors"`
	Year      string  `json:"year"`
	Publisher string  `json:"publisher"`
	SourceURL *string `json:"source_url"`
}
