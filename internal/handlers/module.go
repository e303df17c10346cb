package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
	"studyhub-backend/internal/storage"
)

// Upload limits: 25 MB per file, study-document extensions only.
const maxUploadBytes = 25 << 20

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".pptx": true,
	".docx": true,
	".txt":  true,
}

type ModuleHandler struct {
	moduleRepo    *repository.ModuleRepo
	generatedRepo *repository.GeneratedRepo
	store         *storage.LocalStore
}

func NewModuleHandler(moduleRepo *repository.ModuleRepo, generatedRepo *repository.GeneratedRepo, store *storage.LocalStore) *ModuleHandler {
	return &ModuleHandler{moduleRepo: moduleRepo, generatedRepo: generatedRepo, store: store}
}

// Get returns the module row plus its current generated content.
func (h *ModuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	module, ok := h.ownedModule(w, r)
	if !ok {
		return
	}

	questions, err := h.generatedRepo.ListQuestions(r.Context(), module.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch questions", r))
		return
	}
	flashcards, err := h.generatedRepo.ListFlashcards(r.Context(), module.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"module":     module,
		"questions":  questions,
		"flashcards": flashcards,
	})
}

func (h *ModuleHandler) Rename(w http.ResponseWriter, r *http.Request) {
	module, ok := h.ownedModule(w, r)
	if !ok {
		return
	}

	var req models.RenameModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Module name is required", r))
		return
	}

	if err := h.moduleRepo.Rename(r.Context(), module.ID, strings.TrimSpace(req.Name)); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to rename module", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Module renamed"})
}

func (h *ModuleHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	module, ok := h.ownedModule(w, r)
	if !ok {
		return
	}

	files, err := h.moduleRepo.ListFiles(r.Context(), module.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch files", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

func (h *ModuleHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	module, ok := h.ownedModule(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "File too large or invalid multipart body", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file field", r))
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_MEDIA_TYPE", "Only pdf, pptx, docx and txt files are supported", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	key := fmt.Sprintf("%s/%s/%s%s", userID, module.ID, uuid.NewString(), ext)

	size, err := h.store.Save(key, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	moduleFile := &models.ModuleFile{
		ModuleID:     module.ID,
		UserID:       userID,
		FilePath:     key,
		OriginalName: header.Filename,
		SizeBytes:    size,
	}
	if err := h.moduleRepo.AddFile(r.Context(), moduleFile); err != nil {
		h.store.Delete(key)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record file", r))
		return
	}

	writeJSON(w, http.StatusCreated, moduleFile)
}

func (h *ModuleHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid file ID", r))
		return
	}

	moduleFile, err := h.moduleRepo.GetFile(r.Context(), fileID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "File not found", r))
		return
	}
	if moduleFile.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "File not found", r))
		return
	}

	if err := h.moduleRepo.DeleteFile(r.Context(), fileID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete file", r))
		return
	}
	h.store.Delete(moduleFile.FilePath)

	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

func (h *ModuleHandler) ownedModule(w http.ResponseWriter, r *http.Request) (*models.Module, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid module ID", r))
		return nil, false
	}

	module, err := h.moduleRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Module not found", r))
		return nil, false
	}
	if module.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Module not found", r))
		return nil, false
	}
	return module, true
}
