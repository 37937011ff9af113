package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/service"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /v1/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req model.ProjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	project, err := h.svc.CreateProject(r.Context(), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("project_created",
		"project_id", project.ID,
		"owner_id", project.OwnerID,
	)

	writeJSON(w, http.StatusCreated, project.ToResponse())
}

// List handles GET /v1/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			writeValidationError(w, "limit", "must be an integer")
			return
		}
		// Bound to the declared (0,100) range before it reaches the store
		limit = parsed
		if limit < 1 {
			limit = 1
		}
		if limit > 99 {
			limit = 99
		}
	}

	offset := 0
	if o := query.Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			writeValidationError(w, "offset", "must be an integer")
			return
		}
		if parsed > 0 {
			offset = parsed
		}
	}

	projects, err := h.svc.ListProjects(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]model.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, project.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": responses})
}

// Get handles GET /v1/projects/{project_id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	projectID := chi.URLParam(r, "project_id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	project, err := h.svc.GetProject(r.Context(), user.ID, projectID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project.ToResponse())
}

// Delete handles DELETE /v1/projects/{project_id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	projectID := chi.URLParam(r, "project_id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	if err := h.svc.DeleteProject(r.Context(), user.ID, projectID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("project_deleted",
		"project_id", projectID,
		"owner_id", user.ID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps project service errors to HTTP responses.
func (h *ProjectHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		writeValidationError(w, "name", "Project name cannot be empty")
	case errors.Is(err, service.ErrNameTooShort):
		writeValidationError(w, "name", "Project name must be at least 3 characters")
	case errors.Is(err, service.ErrNameTooLong):
		writeValidationError(w, "name", "Project name cannot exceed 200 characters")
	case errors.Is(err, service.ErrDescriptionTooLong):
		writeValidationError(w, "description", "Project description cannot exceed 1000 characters")
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrNotProjectOwner):
		// Not-owned surfaces as not-found to prevent enumeration
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
	default:
		h.logger.Error("project operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
