package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
	"studyhub-backend/internal/services"
)

var citationStyles = map[string]bool{
	"apa":     true,
	"mla":     true,
	"chicago": true,
	"harvard": true,
}

type CitationHandler struct {
	citationRepo *repository.CitationRepo
	gemini       *services.GeminiService
}

func NewCitationHandler(citationRepo *repository.CitationRepo, gemini *services.GeminiService) *CitationHandler {
	return &CitationHandler{citationRepo: citationRepo, gemini: gemini}
}

// Generate formats a citation in the requested style and saves it to the
// user's citation list.
func (h *CitationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Style = strings.ToLower(strings.TrimSpace(req.Style))
	if !citationStyles[req.Style] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Style must be one of: apa, mla, chicago, harvard", r))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Title is required", r))
		return
	}

	formatted, err := h.gemini.GenerateCitation(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	citation := &models.Citation{
		UserID:    middleware.GetUserID(r.Context()),
		Style:     req.Style,
		SourceURL: req.SourceURL,
		Formatted: formatted,
	}
	if err := h.citationRepo.Create(r.Context(), citation); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save citation", r))
		return
	}

	writeJSON(w, http.StatusCreated, citation)
}

func (h *CitationHandler) List(w http.ResponseWriter, r *http.Request) {
	citations, err := h.citationRepo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch citations", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"citations": citations})
}

func (h *CitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid citation ID", r))
		return
	}

	citation, err := h.citationRepo.GetByID(r.Context(), id)
	if err != nil || citation.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Citation not found", r))
		return
	}

	if err := h.citationRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete citation", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Citation deleted"})
}
