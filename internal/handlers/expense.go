package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
	"studyhub-backend/internal/services"
)

type ExpenseHandler struct {
	expenseRepo *repository.ExpenseRepo
	gemini      *services.GeminiService
}

func NewExpenseHandler(expenseRepo *repository.ExpenseRepo, gemini *services.GeminiService) *ExpenseHandler {
	return &ExpenseHandler{expenseRepo: expenseRepo, gemini: gemini}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Amount must be positive", r))
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense := &models.Expense{
		UserID:      middleware.GetUserID(r.Context()),
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		SpentAt:     spentAt,
	}
	if err := h.expenseRepo.Create(r.Context(), expense); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create expense", r))
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// List returns the user's expenses for the requested period, defaulting to the
// current calendar month. Query params: from, until (RFC 3339 dates).
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	until := from.AddDate(0, 1, 0)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			until = t
		}
	}

	expenses, err := h.expenseRepo.ListByUser(r.Context(), userID, from, until)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch expenses", r))
		return
	}

	total, err := h.expenseRepo.MonthTotal(r.Context(), userID, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch month total", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expenses":    expenses,
		"month_total": total,
	})
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid expense ID", r))
		return
	}

	expense, err := h.expenseRepo.GetByID(r.Context(), id)
	if err != nil || expense.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Expense not found", r))
		return
	}

	if err := h.expenseRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete expense", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

// Parse structures free-form text ("lunch 1200 tenge yesterday") into an
// expense draft via the model. Nothing is persisted; the client confirms and
// POSTs the draft back through Create.
func (h *ExpenseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req models.ParseExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Text is required", r))
		return
	}

	parsed, err := h.gemini.ParseExpense(r.Context(), req.Text, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, parsed)
}
