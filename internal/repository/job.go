package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baynext/baynext/internal/model"
)

// ErrJobNotFound indicates no job row matched the lookup.
var ErrJobNotFound = errors.New("job not found")

// CreateJob inserts a new job into the database.
func (r *Repository) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (id, pipeline_id, project_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.PipelineID,
		job.ProjectID,
		job.Status,
		job.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a job by its ID.
func (r *Repository) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	query := `
		SELECT id, pipeline_id, project_id, status, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	var job model.Job
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.PipelineID,
		&job.ProjectID,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return &job, nil
}

// ListJobsByPipeline retrieves jobs for a pipeline. Job IDs are ULIDs,
// so the ID ordering matches creation order.
func (r *Repository) ListJobsByPipeline(ctx context.Context, pipelineID string) ([]*model.Job, error) {
	query := `
		SELECT id, pipeline_id, project_id, status, created_at, updated_at
		FROM jobs
		WHERE pipeline_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		var job model.Job
		err := rows.Scan(
			&job.ID,
			&job.PipelineID,
			&job.ProjectID,
			&job.Status,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJobStatus sets the status of a job.
func (r *Repository) UpdateJobStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE jobs
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrJobNotFound
	}

	return nil
}
