package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"studyhub-backend/internal/examprep"
	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/services"
)

type moduleProcessor interface {
	Process(ctx context.Context, userID, moduleID uuid.UUID, filePaths []string) error
}

// ExamPrepHandler exposes the generation pipeline over HTTP. The request runs
// synchronously; progress and the final status also fan out over the user's
// WebSocket channel.
type ExamPrepHandler struct {
	pipeline   moduleProcessor
	production bool
}

func NewExamPrepHandler(pipeline moduleProcessor, production bool) *ExamPrepHandler {
	return &ExamPrepHandler{pipeline: pipeline, production: production}
}

func (h *ExamPrepHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.ModuleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "module_id is required"})
		return
	}
	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "module_id must be a valid UUID"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.pipeline.Process(r.Context(), userID, moduleID, req.FilePaths); err != nil {
		h.writeProcessError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeProcessError maps pipeline failures onto the endpoint's error contract.
// Every response carries the stage breadcrumb so a client can tell where the
// run died without parsing the message.
func (h *ExamPrepHandler) writeProcessError(w http.ResponseWriter, err error) {
	stage := stageOf(err)

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Message})
		return
	}

	var busy *examprep.ModuleBusyError
	if errors.As(err, &busy) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": busy.Error()})
		return
	}

	var unsupported *examprep.UnsupportedContentError
	if errors.As(err, &unsupported) {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]interface{}{
			"error":   "No usable content found in the provided files",
			"details": unsupported.Skipped,
		})
		return
	}

	var rateLimited *services.RateLimitError
	if errors.As(err, &rateLimited) {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":             "The AI service is rate limited, try again shortly",
			"stage":             stage,
			"retryAfterSeconds": rateLimited.RetryAfterSeconds,
			"message":           rateLimited.Message,
		})
		return
	}

	body := map[string]interface{}{
		"error": "Exam prep generation failed",
		"stage": stage,
	}
	if !h.production {
		body["message"] = fmt.Sprintf("%v", err)
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func stageOf(err error) string {
	var stageErr *examprep.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
