package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baynext/baynext/internal/model"
)

// ErrPipelineNotFound indicates no pipeline row matched the lookup.
var ErrPipelineNotFound = errors.New("pipeline not found")

// CreatePipeline inserts a new pipeline into the database.
// The model spec document is stored as JSONB.
func (r *Repository) CreatePipeline(ctx context.Context, pipeline *model.Pipeline) error {
	query := `
		INSERT INTO pipelines (id, project_id, dataset_id, display_name, model_spec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		pipeline.ID,
		pipeline.ProjectID,
		pipeline.DatasetID,
		pipeline.DisplayName,
		pipeline.ModelSpec,
		pipeline.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	return nil
}

// GetPipelineByID retrieves a pipeline by its ID.
func (r *Repository) GetPipelineByID(ctx context.Context, id string) (*model.Pipeline, error) {
	query := `
		SELECT id, project_id, dataset_id, display_name, model_spec, created_at, updated_at
		FROM pipelines
		WHERE id = $1
	`

	var pipeline model.Pipeline
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pipeline.ID,
		&pipeline.ProjectID,
		&pipeline.DatasetID,
		&pipeline.DisplayName,
		&pipeline.ModelSpec,
		&pipeline.CreatedAt,
		&pipeline.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPipelineNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline by ID: %w", err)
	}

	return &pipeline, nil
}

// ListPipelinesByProject retrieves pipelines owned by a project.
func (r *Repository) ListPipelinesByProject(ctx context.Context, projectID string) ([]*model.Pipeline, error) {
	query := `
		SELECT id, project_id, dataset_id, display_name, model_spec, created_at, updated_at
		FROM pipelines
		WHERE project_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}
	defer rows.Close()

	var pipelines []*model.Pipeline
	for rows.Next() {
		var pipeline model.Pipeline
		err := rows.Scan(
			&pipeline.ID,
			&pipeline.ProjectID,
			&pipeline.DatasetID,
			&pipeline.DisplayName,
			&pipeline.ModelSpec,
			&pipeline.CreatedAt,
			&pipeline.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pipeline: %w", err)
		}
		pipelines = append(pipelines, &pipeline)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pipelines: %w", err)
	}

	return pipelines, nil
}

// DeletePipeline removes a pipeline row. Returns true if a row existed
// and was removed.
func (r *Repository) DeletePipeline(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM pipelines WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pipeline: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
