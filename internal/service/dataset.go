package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// Dataset service errors.
var (
	ErrDatasetNotFound     = errors.New("dataset not found")
	ErrDatasetNameRequired = errors.New("dataset name cannot be empty")
	ErrDatasetNameTooLong  = errors.New("dataset name cannot exceed 255 characters")
)

const datasetNameMaxLength = 255

// DatasetStore is the persistence surface the dataset service needs.
type DatasetStore interface {
	CreateDataset(ctx context.Context, dataset *model.Dataset) error
	GetDatasetByID(ctx context.Context, id string) (*model.Dataset, error)
	ListDatasetsByProject(ctx context.Context, projectID string) ([]*model.Dataset, error)
	DeleteDataset(ctx context.Context, id string) (bool, error)
}

// DatasetService handles dataset business logic.
type DatasetService struct {
	store DatasetStore
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(store DatasetStore) *DatasetService {
	return &DatasetService{store: store}
}

// CreateDataset validates and persists a dataset for a project.
func (s *DatasetService) CreateDataset(ctx context.Context, projectID string, req model.DatasetCreateRequest) (*model.Dataset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrDatasetNameRequired
	}
	if utf8.RuneCountInString(name) > datasetNameMaxLength {
		return nil, ErrDatasetNameTooLong
	}

	dataset := &model.Dataset{
		ID:        "ds_" + uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		Columns:   req.Columns,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateDataset(ctx, dataset); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}

	return dataset, nil
}

// GetDataset fetches a dataset scoped to a project. Datasets outside
// the project resolve to ErrDatasetNotFound.
func (s *DatasetService) GetDataset(ctx context.Context, projectID, datasetID string) (*model.Dataset, error) {
	dataset, err := s.store.GetDatasetByID(ctx, datasetID)
	if err != nil {
		if errors.Is(err, repository.ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	if dataset.ProjectID != projectID {
		return nil, ErrDatasetNotFound
	}

	return dataset, nil
}

// ListDatasets returns datasets owned by a project.
func (s *DatasetService) ListDatasets(ctx context.Context, projectID string) ([]*model.Dataset, error) {
	datasets, err := s.store.ListDatasetsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return datasets, nil
}

// DeleteDataset removes a dataset scoped to a project.
func (s *DatasetService) DeleteDataset(ctx context.Context, projectID, datasetID string) error {
	if _, err := s.GetDataset(ctx, projectID, datasetID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteDataset(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if !deleted {
		return ErrDatasetNotFound
	}

	return nil
}
