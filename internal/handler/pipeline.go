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

// PipelineHandler handles pipeline endpoints.
type PipelineHandler struct {
	svc      *service.PipelineService
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(svc *service.PipelineService, projects *service.ProjectService, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		svc:      svc,
		projects: projects,
		logger:   logger,
	}
}

// Create handles POST /v1/projects/{project_id}/pipelines.
func (h *PipelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req model.PipelineCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	pipeline, err := h.svc.CreatePipeline(r.Context(), project.ID, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("pipeline_created",
		"pipeline_id", pipeline.ID,
		"dataset_id", pipeline.DatasetID,
		"project_id", project.ID,
	)

	writeJSON(w, http.StatusCreated, pipeline.ToResponse())
}

// List handles GET /v1/projects/{project_id}/pipelines.
func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	pipelines, err := h.svc.ListPipelines(r.Context(), project.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]model.PipelineResponse, 0, len(pipelines))
	for _, pipeline := range pipelines {
		responses = append(responses, pipeline.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"pipelines": responses})
}

// Get handles GET /v1/projects/{project_id}/pipelines/{pipeline_id}.
func (h *PipelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	pipeline, err := h.svc.GetPipeline(r.Context(), project.ID, chi.URLParam(r, "pipeline_id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pipeline.ToResponse())
}

// Delete handles DELETE /v1/projects/{project_id}/pipelines/{pipeline_id}.
func (h *PipelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	if err := h.svc.DeletePipeline(r.Context(), project.ID, chi.URLParam(r, "pipeline_id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps pipeline service errors to HTTP responses.
func (h *PipelineHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPipelineNameRequired):
		writeValidationError(w, "display_name", "Pipeline display name cannot be empty")
	case errors.Is(err, service.ErrPipelineNameTooLong):
		writeValidationError(w, "display_name", "Pipeline display name cannot exceed 255 characters")
	case errors.Is(err, service.ErrPipelineDatasetRequired):
		writeValidationError(w, "dataset_id", "dataset_id is required")
	case errors.Is(err, service.ErrInvalidModelSpec):
		writeValidationError(w, "model_spec", "model_spec must be a JSON document")
	case errors.Is(err, service.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found")
	case errors.Is(err, service.ErrPipelineNotFound):
		writeError(w, http.StatusNotFound, "PIPELINE_NOT_FOUND", "Pipeline not found")
	default:
		h.logger.Error("pipeline operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
