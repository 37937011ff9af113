package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/model"
)

func TestUserHandler_Me(t *testing.T) {
	h := NewUserHandler()

	user := &model.User{ID: "user_1", Email: "owner@example.com"}
	req := httptest.NewRequest(http.MethodGet, "/v1/user/me", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got model.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Errorf("got %+v, want %+v", got, user)
	}
}

func TestUserHandler_Me_Unauthenticated(t *testing.T) {
	h := NewUserHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/user/me", nil)
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a resolved user, got %d", rec.Code)
	}
}
