package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/service"
)

// KeyHandler handles API key management endpoints.
type KeyHandler struct {
	svc      *service.KeyService
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(svc *service.KeyService, projects *service.ProjectService, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		svc:      svc,
		projects: projects,
		logger:   logger,
	}
}

// Create handles POST /v1/projects/{project_id}/keys.
// The response carries the plaintext secret; it is never shown again.
func (h *KeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	// Pre-seed the default so an omitted expiry window means 30 days
	// while an explicit null produces a never-expiring key.
	defaultDays := model.KeyExpiresDefaultDays
	req := model.KeyCreateRequest{ExpiresInDays: &defaultDays}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	key, plaintext, err := h.svc.CreateKey(r.Context(), project.ID, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("api_key_created",
		"key_id", key.ID,
		"key_prefix", key.Prefix,
		"project_id", project.ID,
	)

	writeJSON(w, http.StatusCreated, model.KeyCreateResponse{
		ID:          key.ID,
		Key:         plaintext,
		Description: key.Description,
		Prefix:      key.Prefix,
		IsActive:    key.IsActive,
		ExpiresAt:   key.ExpiresAt,
		CreatedAt:   key.CreatedAt,
	})
}

// List handles GET /v1/projects/{project_id}/keys.
func (h *KeyHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	keys, err := h.svc.ListKeys(r.Context(), project.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]model.KeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"keys": responses})
}

// Revoke handles DELETE /v1/projects/{project_id}/keys/{key_id}.
func (h *KeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	keyID := chi.URLParam(r, "key_id")
	if keyID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Key ID is required")
		return
	}

	if err := h.svc.RevokeKey(r.Context(), project.ID, keyID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("api_key_revoked",
		"key_id", keyID,
		"project_id", project.ID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps key service errors to HTTP responses.
func (h *KeyHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrKeyDescriptionRequired):
		writeValidationError(w, "description", "Key description cannot be empty")
	case errors.Is(err, service.ErrKeyDescriptionTooLong):
		writeValidationError(w, "description", "Key description cannot exceed 255 characters")
	case errors.Is(err, service.ErrKeyExpiryOutOfRange):
		writeValidationError(w, "expires_in_days", "must be between 1 and 365")
	case errors.Is(err, service.ErrKeyNotFound):
		writeError(w, http.StatusNotFound, "KEY_NOT_FOUND", "API key not found or already revoked")
	default:
		h.logger.Error("key operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
