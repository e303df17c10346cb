package models

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	SpentAt     time.Time `json:"spent_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateExpenseRequest struct {
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	SpentAt     *time.Time `json:"spent_at"`
}

// ParseExpenseRequest carries free-form text like "coffee 3.50 yesterday"
// for the model to structure.
type ParseExpenseRequest struct {
	Text string `json:"text"`
}

type ParsedExpense struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	SpentAt     string  `json:"spent_at"`
}
