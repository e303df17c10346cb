package handlers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub-backend/internal/middleware"
)

// DashboardHandler aggregates cross-domain counters in one round of queries
// rather than going through the per-domain repositories.
type DashboardHandler struct {
	db *pgxpool.Pool
}

func NewDashboardHandler(db *pgxpool.Pool) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	var subjects, readyModules, openTasks int
	var monthSpend float64

	err := h.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subjects WHERE user_id = $1`, userID).Scan(&subjects)
	if err == nil {
		err = h.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM modules m
			 JOIN subjects s ON s.id = m.subject_id
			 WHERE s.user_id = $1 AND m.status = 'ready'`, userID).Scan(&readyModules)
	}
	if err == nil {
		err = h.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND is_completed = FALSE`, userID).Scan(&openTasks)
	}
	if err == nil {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		err = h.db.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM expenses
			 WHERE user_id = $1 AND spent_at >= $2 AND spent_at < $3`,
			userID, monthStart, monthStart.AddDate(0, 1, 0)).Scan(&monthSpend)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subjects":      subjects,
		"ready_modules": readyModules,
		"open_tasks":    openTasks,
		"month_spend":   monthSpend,
	})
}
