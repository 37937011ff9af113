package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
	"github.com/baynext/baynext/internal/service"
)

type fakeKeyStore struct {
	keys map[string]*model.Key
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{keys: make(map[string]*model.Key)}
}

func (f *fakeKeyStore) CreateKey(ctx context.Context, key *model.Key) error {
	f.keys[key.ID] = key
	return nil
}

func (f *fakeKeyStore) GetKeyByID(ctx context.Context, id string) (*model.Key, error) {
	k, ok := f.keys[id]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return k, nil
}

func (f *fakeKeyStore) ListKeysByProject(ctx context.Context, projectID string) ([]*model.Key, error) {
	var out []*model.Key
	for _, k := range f.keys {
		if k.ProjectID == projectID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeyStore) RevokeKey(ctx context.Context, id string) error {
	k, ok := f.keys[id]
	if !ok || !k.IsActive {
		return repository.ErrKeyNotFound
	}
	k.IsActive = false
	return nil
}

func newKeyRouter(keys *fakeKeyStore, projects *fakeProjectStore, user *model.User) *chi.Mux {
	keySvc := service.NewKeyService(keys, nil)
	projectSvc := service.NewProjectService(projects, nil)
	h := NewKeyHandler(keySvc, projectSvc, testLogger())

	r := chi.NewRouter()
	r.Use(withUser(user))
	r.Route("/v1/projects/{project_id}/keys", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{key_id}", h.Revoke)
	})
	return r
}

func TestKeyHandler_Create_DefaultExpiry(t *testing.T) {
	keys := newFakeKeyStore()
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_1")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	// expires_in_days omitted entirely
	body := strings.NewReader(`{"description":"CI key"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_1/keys", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp model.KeyCreateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ExpiresAt == nil {
		t.Fatal("omitted expiry window should default to 30 days, got never-expiring")
	}
	want := time.Now().AddDate(0, 0, model.KeyExpiresDefaultDays)
	if diff := resp.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt = %v, want about %v", resp.ExpiresAt, want)
	}
}

func TestKeyHandler_Create_ExplicitNullNeverExpires(t *testing.T) {
	keys := newFakeKeyStore()
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_1")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	body := strings.NewReader(`{"description":"permanent","expires_in_days":null}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_1/keys", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp model.KeyCreateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ExpiresAt != nil {
		t.Errorf("explicit null expiry should never expire, got %v", resp.ExpiresAt)
	}
}

func TestKeyHandler_Create_PlaintextShownOnce(t *testing.T) {
	keys := newFakeKeyStore()
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_1")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_1/keys", strings.NewReader(`{"description":"CI key"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created model.KeyCreateResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.HasPrefix(created.Key, "byn_") {
		t.Errorf("creation response should carry the plaintext key, got %q", created.Key)
	}

	// The list projection must never include the secret.
	req = httptest.NewRequest(http.MethodGet, "/v1/projects/proj_1/keys", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), created.Key) {
		t.Error("plaintext key leaked from the list endpoint")
	}
	if strings.Contains(rec.Body.String(), "secret_hash") || strings.Contains(rec.Body.String(), "$argon2id$") {
		t.Error("secret hash leaked from the list endpoint")
	}
}

func TestKeyHandler_Create_ExpiryOutOfRange(t *testing.T) {
	keys := newFakeKeyStore()
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_1")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_1/keys", strings.NewReader(`{"description":"bad","expires_in_days":400}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if _, ok := body.Fields["expires_in_days"]; !ok {
		t.Errorf("expected field-level detail for expires_in_days, got %v", body.Fields)
	}
}

func TestKeyHandler_Create_ForeignProject(t *testing.T) {
	keys := newFakeKeyStore()
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_other")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/proj_1/keys", strings.NewReader(`{"description":"CI key"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another tenant's project, got %d", rec.Code)
	}
	if len(keys.keys) != 0 {
		t.Error("no key should be created under another tenant's project")
	}
}

func TestKeyHandler_Revoke(t *testing.T) {
	keys := newFakeKeyStore()
	keys.keys["key_1"] = &model.Key{ID: "key_1", ProjectID: "proj_1", IsActive: true}
	projects := newFakeProjectStore()
	projects.seedProject("proj_1", "user_1")
	router := newKeyRouter(keys, projects, &model.User{ID: "user_1"})

	req := httptest.NewRequest(http.MethodDelete, "/v1/projects/proj_1/keys/key_1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if keys.keys["key_1"].IsActive {
		t.Error("key should be revoked")
	}

	// Second revoke resolves to 404.
	req = httptest.NewRequest(http.MethodDelete, "/v1/projects/proj_1/keys/key_1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second revoke, got %d", rec.Code)
	}
}
