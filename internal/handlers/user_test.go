package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
)

type stubUserRepo struct {
	user *models.User

	updatedName string
	updatedPwd  string
	deactivated bool
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string) error {
	s.updatedName = fullName
	s.user.FullName = fullName
	return nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.updatedPwd = passwordHash
	return nil
}

func (s *stubUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	s.deactivated = true
	return nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "student@example.com",
		FullName:     "Test Student",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestChangePassword_Success(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "oldpassword")}
	h := NewUserHandler(repo)

	rec := httptest.NewRecorder()
	h.ChangePassword(rec, authedRequest(http.MethodPut, "/api/v1/user/password",
		`{"current_password": "oldpassword", "new_password": "newpassword123"}`, repo.user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if repo.updatedPwd == "" {
		t.Fatal("password was not updated")
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.updatedPwd), []byte("newpassword123")) != nil {
		t.Error("stored hash does not match the new password")
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "oldpassword")}
	h := NewUserHandler(repo)

	rec := httptest.NewRecorder()
	h.ChangePassword(rec, authedRequest(http.MethodPut, "/api/v1/user/password",
		`{"current_password": "not-it", "new_password": "newpassword123"}`, repo.user.ID))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if repo.updatedPwd != "" {
		t.Error("password must not change on wrong current password")
	}
}

func TestChangePassword_TooShort(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "oldpassword")}
	h := NewUserHandler(repo)

	rec := httptest.NewRecorder()
	h.ChangePassword(rec, authedRequest(http.MethodPut, "/api/v1/user/password",
		`{"current_password": "oldpassword", "new_password": "short"}`, repo.user.ID))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateMe(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "pw")}
	h := NewUserHandler(repo)

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, authedRequest(http.MethodPut, "/api/v1/user/me",
		`{"full_name": "  New Name  "}`, repo.user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if repo.updatedName != "New Name" {
		t.Errorf("updated name = %q, want trimmed %q", repo.updatedName, "New Name")
	}

	rec = httptest.NewRecorder()
	h.UpdateMe(rec, authedRequest(http.MethodPut, "/api/v1/user/me", `{"full_name": "   "}`, repo.user.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status = %d, want 400", rec.Code)
	}
}

func TestDeleteMe(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "pw")}
	h := NewUserHandler(repo)

	rec := httptest.NewRecorder()
	h.DeleteMe(rec, authedRequest(http.MethodDelete, "/api/v1/user/me", "", repo.user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !repo.deactivated {
		t.Error("account was not deactivated")
	}
}
