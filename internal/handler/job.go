package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/service"
)

// JobHandler handles pipeline job endpoints.
type JobHandler struct {
	svc      *service.JobService
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc *service.JobService, projects *service.ProjectService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		svc:      svc,
		projects: projects,
		logger:   logger,
	}
}

// Create handles POST /v1/projects/{project_id}/pipelines/{pipeline_id}/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	job, err := h.svc.CreateJob(r.Context(), project.ID, chi.URLParam(r, "pipeline_id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("job_created",
		"job_id", job.ID,
		"pipeline_id", job.PipelineID,
		"project_id", project.ID,
	)

	writeJSON(w, http.StatusCreated, job.ToResponse())
}

// List handles GET /v1/projects/{project_id}/pipelines/{pipeline_id}/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	jobs, err := h.svc.ListJobs(r.Context(), project.ID, chi.URLParam(r, "pipeline_id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]model.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, job.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"jobs": responses})
}

// Get handles GET /v1/projects/{project_id}/pipelines/{pipeline_id}/jobs/{job_id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	job, err := h.svc.GetJob(r.Context(), project.ID, chi.URLParam(r, "pipeline_id"), chi.URLParam(r, "job_id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job.ToResponse())
}

// handleServiceError maps job service errors to HTTP responses.
func (h *JobHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPipelineNotFound):
		writeError(w, http.StatusNotFound, "PIPELINE_NOT_FOUND", "Pipeline not found")
	case errors.Is(err, service.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found")
	default:
		h.logger.Error("job operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
