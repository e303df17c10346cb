package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
)

type SubjectHandler struct {
	subjectRepo *repository.SubjectRepo
	moduleRepo  *repository.ModuleRepo
}

func NewSubjectHandler(subjectRepo *repository.SubjectRepo, moduleRepo *repository.ModuleRepo) *SubjectHandler {
	return &SubjectHandler{subjectRepo: subjectRepo, moduleRepo: moduleRepo}
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Subject name is required", r))
		return
	}
	if req.ExamType == "" {
		req.ExamType = models.ExamTypeEndterm
	}
	if req.ExpectedMostLikely < 1 {
		req.ExpectedMostLikely = 3
	}
	if req.MarksPerQuestion < 1 {
		req.MarksPerQuestion = 5
	}
	if req.ModuleCount < 1 || req.ModuleCount > 12 {
		req.ModuleCount = 4
	}

	subject := &models.Subject{
		UserID:             middleware.GetUserID(r.Context()),
		Name:               req.Name,
		ExamType:           req.ExamType,
		ExpectedMostLikely: req.ExpectedMostLikely,
		MarksPerQuestion:   req.MarksPerQuestion,
		ModuleCount:        req.ModuleCount,
	}

	if err := h.subjectRepo.Create(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create subject", r))
		return
	}

	writeJSON(w, http.StatusCreated, subject)
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	subjects, err := h.subjectRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch subjects", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.ownedSubject(w, r)
	if !ok {
		return
	}

	modules, err := h.moduleRepo.ListBySubject(r.Context(), subject.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch modules", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subject": subject,
		"modules": modules,
	})
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.ownedSubject(w, r)
	if !ok {
		return
	}

	var req models.UpdateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Name != nil && *req.Name != "" {
		subject.Name = *req.Name
	}
	if req.ExamType != nil && *req.ExamType != "" {
		subject.ExamType = *req.ExamType
	}
	if req.ExpectedMostLikely != nil && *req.ExpectedMostLikely >= 1 {
		subject.ExpectedMostLikely = *req.ExpectedMostLikely
	}
	if req.MarksPerQuestion != nil && *req.MarksPerQuestion >= 1 {
		subject.MarksPerQuestion = *req.MarksPerQuestion
	}

	if err := h.subjectRepo.Update(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update subject", r))
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.ownedSubject(w, r)
	if !ok {
		return
	}

	if err := h.subjectRepo.Delete(r.Context(), subject.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}

// ownedSubject loads the {id} subject and enforces ownership, writing the
// error response itself when the lookup fails.
func (h *SubjectHandler) ownedSubject(w http.ResponseWriter, r *http.Request) (*models.Subject, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return nil, false
	}

	subject, err := h.subjectRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
		return nil, false
	}

	if subject.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
		return nil, false
	}
	return subject, true
}
