package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
	"github.com/baynext/baynext/internal/service"
)

// Shared test fixtures for the handler package. Fake stores back real
// services so handlers are exercised through the same code paths the
// server wires up, minus the database.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser injects an authenticated user the way the auth middleware
// would.
func withUser(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}

type fakeProjectStore struct {
	projects map[string]*model.Project
	order    []string
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (f *fakeProjectStore) CreateProject(ctx context.Context, project *model.Project) error {
	f.projects[project.ID] = project
	f.order = append(f.order, project.ID)
	return nil
}

func (f *fakeProjectStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	var out []*model.Project
	for _, id := range f.order {
		if p, ok := f.projects[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProjectStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	if _, ok := f.projects[id]; !ok {
		return false, nil
	}
	delete(f.projects, id)
	return true, nil
}

// seedProject inserts a project owned by the given user.
func (f *fakeProjectStore) seedProject(id, ownerID string) *model.Project {
	p := &model.Project{ID: id, Name: "Seeded", Slug: "seeded", OwnerID: ownerID}
	f.projects[id] = p
	f.order = append(f.order, id)
	return p
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body struct {
		Error errorBody `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

func newProjectRouter(store *fakeProjectStore, user *model.User) *chi.Mux {
	svc := service.NewProjectService(store, nil)
	h := NewProjectHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Use(withUser(user))
	r.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{project_id}", h.Get)
		r.Delete("/{project_id}", h.Delete)
	})
	return r
}

func TestHandler_Root(t *testing.T) {
	h := New("Baynext API", "0.1.0")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Baynext API" {
		t.Errorf("message = %q, want Baynext API", body["message"])
	}
	if body["version"] != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", body["version"])
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New("Baynext API", "0.1.0")

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("error code = %s, want NOT_FOUND", body.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New("Baynext API", "0.1.0")

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
