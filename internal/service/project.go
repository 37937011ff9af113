// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// Project service errors.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrNotProjectOwner    = errors.New("caller does not own the project")
	ErrNameRequired       = errors.New("project name cannot be empty")
	ErrNameTooShort       = errors.New("project name must be at least 3 characters")
	ErrNameTooLong        = errors.New("project name cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("project description cannot exceed 1000 characters")
)

// Pagination bounds for project listings. Caller-supplied limits are
// clamped; they never reach the store out of range.
const (
	DefaultProjectLimit = 100
	MaxProjectLimit     = 100
)

var slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

// ProjectStore is the persistence surface the project service needs.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)
}

// ProjectService handles project business logic.
type ProjectService struct {
	store   ProjectStore
	metrics metrics.Recorder
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store ProjectStore, recorder metrics.Recorder) *ProjectService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProjectService{
		store:   store,
		metrics: recorder,
	}
}

// CreateProjectInput defines input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description *string
	OwnerID     string
}

// CreateProject validates and persists a new project. The name is
// trimmed before the length checks; the stored name is the trimmed
// value. The owner is set atomically with creation.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, ErrNameRequired
	case utf8.RuneCountInString(name) < model.ProjectNameMinLength:
		return nil, ErrNameTooShort
	case utf8.RuneCountInString(name) > model.ProjectNameMaxLength:
		return nil, ErrNameTooLong
	}

	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slugify(name),
		Description: description,
		OwnerID:     input.OwnerID,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.metrics.IncProjectCreated()
	return project, nil
}

// ListProjects returns projects owned by the caller, in insertion
// order. Limit is clamped to at most MaxProjectLimit; non-positive
// values fall back to the default. Negative offsets are treated as 0.
func (s *ProjectService) ListProjects(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	if limit <= 0 {
		limit = DefaultProjectLimit
	}
	if limit > MaxProjectLimit {
		limit = MaxProjectLimit
	}
	if offset < 0 {
		offset = 0
	}

	projects, err := s.store.ListProjectsByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

// GetProject fetches a project and verifies the caller owns it.
// A project owned by someone else resolves to ErrNotProjectOwner;
// handlers surface that identically to not-found to prevent
// enumeration of other tenants' project IDs.
func (s *ProjectService) GetProject(ctx context.Context, callerID, projectID string) (*model.Project, error) {
	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	if project.OwnerID != callerID {
		return nil, ErrNotProjectOwner
	}

	return project, nil
}

// DeleteProject removes a project after verifying ownership. Children
// cascade at the database level.
func (s *ProjectService) DeleteProject(ctx context.Context, callerID, projectID string) error {
	if _, err := s.GetProject(ctx, callerID, projectID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if !deleted {
		return ErrProjectNotFound
	}

	s.metrics.IncProjectDeleted()
	return nil
}

// normalizeDescription trims the description and normalizes
// empty-after-trim values to absent.
func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > model.ProjectDescriptionMaxLength {
		return nil, ErrDescriptionTooLong
	}

	return &trimmed, nil
}

// slugify derives a URL-safe slug from a project name.
func slugify(name string) string {
	slug := slugStripRegex.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
