package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// ErrJobNotFound indicates the job does not exist within the scope.
var ErrJobNotFound = errors.New("job not found")

// JobStore is the persistence surface the job service needs.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobsByPipeline(ctx context.Context, pipelineID string) ([]*model.Job, error)
	GetPipelineByID(ctx context.Context, id string) (*model.Pipeline, error)
}

// JobService handles pipeline execution records.
type JobService struct {
	store   JobStore
	metrics metrics.Recorder
}

// NewJobService creates a new JobService.
func NewJobService(store JobStore, recorder metrics.Recorder) *JobService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &JobService{
		store:   store,
		metrics: recorder,
	}
}

// CreateJob records a pending execution of a pipeline. The pipeline
// must belong to the project; status transitions are driven by the
// training backend, not this API.
func (s *JobService) CreateJob(ctx context.Context, projectID, pipelineID string) (*model.Job, error) {
	pipeline, err := s.store.GetPipelineByID(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, repository.ErrPipelineNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, fmt.Errorf("get pipeline: %w", err)
	}
	if pipeline.ProjectID != projectID {
		return nil, ErrPipelineNotFound
	}

	job := &model.Job{
		ID:         "job_" + ulid.Make().String(),
		PipelineID: pipeline.ID,
		ProjectID:  projectID,
		Status:     model.JobStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.metrics.IncJobCreated()
	return job, nil
}

// GetJob fetches a job scoped to a project and pipeline.
func (s *JobService) GetJob(ctx context.Context, projectID, pipelineID, jobID string) (*model.Job, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	if job.ProjectID != projectID || job.PipelineID != pipelineID {
		return nil, ErrJobNotFound
	}

	return job, nil
}

// ListJobs returns jobs for a pipeline scoped to a project, in
// creation order.
func (s *JobService) ListJobs(ctx context.Context, projectID, pipelineID string) ([]*model.Job, error) {
	pipeline, err := s.store.GetPipelineByID(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, repository.ErrPipelineNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, fmt.Errorf("get pipeline: %w", err)
	}
	if pipeline.ProjectID != projectID {
		return nil, ErrPipelineNotFound
	}

	jobs, err := s.store.ListJobsByPipeline(ctx, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
