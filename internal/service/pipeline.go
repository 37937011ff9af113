package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// Pipeline service errors.
var (
	ErrPipelineNotFound        = errors.New("pipeline not found")
	ErrPipelineNameRequired    = errors.New("pipeline display name cannot be empty")
	ErrPipelineNameTooLong     = errors.New("pipeline display name cannot exceed 255 characters")
	ErrInvalidModelSpec        = errors.New("model spec must be a JSON document")
	ErrPipelineDatasetRequired = errors.New("dataset_id is required")
)

const pipelineNameMaxLength = 255

// PipelineStore is the persistence surface the pipeline service needs.
// Dataset lookups are included for referential checks at creation.
type PipelineStore interface {
	CreatePipeline(ctx context.Context, pipeline *model.Pipeline) error
	GetPipelineByID(ctx context.Context, id string) (*model.Pipeline, error)
	ListPipelinesByProject(ctx context.Context, projectID string) ([]*model.Pipeline, error)
	DeletePipeline(ctx context.Context, id string) (bool, error)
	GetDatasetByID(ctx context.Context, id string) (*model.Dataset, error)
}

// PipelineService handles pipeline business logic.
type PipelineService struct {
	store PipelineStore
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(store PipelineStore) *PipelineService {
	return &PipelineService{store: store}
}

// CreatePipeline validates and persists a pipeline. The referenced
// dataset must exist and belong to the same project. The model spec
// document is stored opaquely; only well-formedness is checked here.
func (s *PipelineService) CreatePipeline(ctx context.Context, projectID string, req model.PipelineCreateRequest) (*model.Pipeline, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, ErrPipelineNameRequired
	}
	if utf8.RuneCountInString(displayName) > pipelineNameMaxLength {
		return nil, ErrPipelineNameTooLong
	}

	if req.DatasetID == "" {
		return nil, ErrPipelineDatasetRequired
	}

	if len(req.ModelSpec) == 0 || !json.Valid(req.ModelSpec) {
		return nil, ErrInvalidModelSpec
	}

	dataset, err := s.store.GetDatasetByID(ctx, req.DatasetID)
	if err != nil {
		if errors.Is(err, repository.ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	if dataset.ProjectID != projectID {
		return nil, ErrDatasetNotFound
	}

	pipeline := &model.Pipeline{
		ID:          "pipe_" + uuid.NewString(),
		ProjectID:   projectID,
		DatasetID:   dataset.ID,
		DisplayName: displayName,
		ModelSpec:   req.ModelSpec,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreatePipeline(ctx, pipeline); err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	return pipeline, nil
}

// GetPipeline fetches a pipeline scoped to a project.
func (s *PipelineService) GetPipeline(ctx context.Context, projectID, pipelineID string) (*model.Pipeline, error) {
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

	return pipeline, nil
}

// ListPipelines returns pipelines owned by a project.
func (s *PipelineService) ListPipelines(ctx context.Context, projectID string) ([]*model.Pipeline, error) {
	pipelines, err := s.store.ListPipelinesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	return pipelines, nil
}

// DeletePipeline removes a pipeline scoped to a project.
func (s *PipelineService) DeletePipeline(ctx context.Context, projectID, pipelineID string) error {
	if _, err := s.GetPipeline(ctx, projectID, pipelineID); err != nil {
		return err
	}

	deleted, err := s.store.DeletePipeline(ctx, pipelineID)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	if !deleted {
		return ErrPipelineNotFound
	}

	return nil
}
