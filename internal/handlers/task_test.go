package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub-backend/internal/models"
)

type stubTaskRepo struct {
	tasks map[uuid.UUID]*models.Task

	created *models.Task
	updated *models.Task
	deleted uuid.UUID
}

func newStubTaskRepo(tasks ...*models.Task) *stubTaskRepo {
	m := make(map[uuid.UUID]*models.Task)
	for _, task := range tasks {
		m[task.ID] = task
	}
	return &stubTaskRepo{tasks: m}
}

func (s *stubTaskRepo) Create(ctx context.Context, t *models.Task) error {
	t.ID = uuid.New()
	s.created = t
	return nil
}

func (s *stubTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return task, nil
}

func (s *stubTaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) Update(ctx context.Context, t *models.Task) error {
	s.updated = t
	return nil
}

func (s *stubTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestTaskCreate(t *testing.T) {
	repo := newStubTaskRepo()
	h := NewTaskHandler(repo)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/tasks",
		`{"title": "  Finish lab report  ", "due_at": "2026-09-01T10:00:00Z"}`, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if repo.created == nil {
		t.Fatal("task not persisted")
	}
	if repo.created.Title != "Finish lab report" {
		t.Errorf("title = %q, want trimmed", repo.created.Title)
	}
	if repo.created.UserID != userID {
		t.Error("task not bound to the requesting user")
	}

	rec = httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/tasks", `{"title": "  "}`, userID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank title: status = %d, want 400", rec.Code)
	}
}

func TestTaskUpdate_ResetsReminderOnNewDueDate(t *testing.T) {
	userID := uuid.New()
	reminded := time.Now().Add(-time.Hour)
	task := &models.Task{ID: uuid.New(), UserID: userID, Title: "Old", RemindedAt: &reminded}
	repo := newStubTaskRepo(task)
	h := NewTaskHandler(repo)

	req := authedRequest(http.MethodPut, "/api/v1/tasks/"+task.ID.String(),
		`{"due_at": "2026-09-10T09:00:00Z", "is_completed": true}`, userID)
	req = withURLParam(req, "id", task.ID.String())

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if repo.updated == nil {
		t.Fatal("task not updated")
	}
	if repo.updated.RemindedAt != nil {
		t.Error("reminder marker should reset when the due date moves")
	}
	if !repo.updated.IsCompleted {
		t.Error("completion flag not applied")
	}

	var body models.Task
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.DueAt == nil || !body.DueAt.Equal(time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("due_at = %v", body.DueAt)
	}
}

func TestTaskUpdate_OtherUsersTaskIsHidden(t *testing.T) {
	task := &models.Task{ID: uuid.New(), UserID: uuid.New(), Title: "Private"}
	repo := newStubTaskRepo(task)
	h := NewTaskHandler(repo)

	req := authedRequest(http.MethodPut, "/api/v1/tasks/"+task.ID.String(), `{"title": "hijack"}`, uuid.New())
	req = withURLParam(req, "id", task.ID.String())

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if repo.updated != nil {
		t.Error("foreign task must not be updated")
	}
}

func TestTaskDelete(t *testing.T) {
	userID := uuid.New()
	task := &models.Task{ID: uuid.New(), UserID: userID, Title: "Done with this"}
	repo := newStubTaskRepo(task)
	h := NewTaskHandler(repo)

	req := authedRequest(http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), "", userID)
	req = withURLParam(req, "id", task.ID.String())

	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if repo.deleted != task.ID {
		t.Error("delete not forwarded to repository")
	}
}
