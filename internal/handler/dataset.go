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

// DatasetHandler handles dataset endpoints.
type DatasetHandler struct {
	svc      *service.DatasetService
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(svc *service.DatasetService, projects *service.ProjectService, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		svc:      svc,
		projects: projects,
		logger:   logger,
	}
}

// Create handles POST /v1/projects/{project_id}/datasets.
func (h *DatasetHandler) Create(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req model.DatasetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	dataset, err := h.svc.CreateDataset(r.Context(), project.ID, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("dataset_created",
		"dataset_id", dataset.ID,
		"project_id", project.ID,
	)

	writeJSON(w, http.StatusCreated, dataset.ToResponse())
}

// List handles GET /v1/projects/{project_id}/datasets.
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	datasets, err := h.svc.ListDatasets(r.Context(), project.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]model.DatasetResponse, 0, len(datasets))
	for _, dataset := range datasets {
		responses = append(responses, dataset.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"datasets": responses})
}

// Get handles GET /v1/projects/{project_id}/datasets/{dataset_id}.
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	dataset, err := h.svc.GetDataset(r.Context(), project.ID, chi.URLParam(r, "dataset_id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataset.ToResponse())
}

// Delete handles DELETE /v1/projects/{project_id}/datasets/{dataset_id}.
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	if err := h.svc.DeleteDataset(r.Context(), project.ID, chi.URLParam(r, "dataset_id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps dataset service errors to HTTP responses.
func (h *DatasetHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDatasetNameRequired):
		writeValidationError(w, "name", "Dataset name cannot be empty")
	case errors.Is(err, service.ErrDatasetNameTooLong):
		writeValidationError(w, "name", "Dataset name cannot exceed 255 characters")
	case errors.Is(err, service.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found")
	default:
		h.logger.Error("dataset operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
