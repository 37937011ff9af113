package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baynext/baynext/internal/model"
)

// ErrProjectNotFound indicates no project row matched the lookup.
var ErrProjectNotFound = errors.New("project not found")

// CreateProject inserts a new project. The owner is set atomically
// with creation and is immutable afterwards.
func (r *Repository) CreateProject(ctx context.Context, project *model.Project) error {
	query := `
		INSERT INTO projects (id, name, slug, description, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Slug,
		project.Description,
		project.OwnerID,
		project.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProjectByID retrieves a project by its ID.
func (r *Repository) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	query := `
		SELECT id, name, slug, description, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project model.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Slug,
		&project.Description,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	return &project, nil
}

// ListProjectsByOwner retrieves projects owned by a user, in insertion
// order, paginated by limit/offset.
func (r *Repository) ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	query := `
		SELECT id, name, slug, description, owner_id, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var project model.Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Slug,
			&project.Description,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// DeleteProject removes a project row. Returns true if a row existed
// and was removed. Ownership is not checked here; callers must
// authorize the delete before invoking it.
func (r *Repository) DeleteProject(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
