package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/baynext/baynext/internal/model"
)

// ErrDatasetNotFound indicates no dataset row matched the lookup.
var ErrDatasetNotFound = errors.New("dataset not found")

// CreateDataset inserts a new dataset into the database.
func (r *Repository) CreateDataset(ctx context.Context, dataset *model.Dataset) error {
	query := `
		INSERT INTO datasets (id, project_id, name, columns, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		dataset.ID,
		dataset.ProjectID,
		dataset.Name,
		pq.Array(dataset.Columns),
		dataset.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	return nil
}

// GetDatasetByID retrieves a dataset by its ID.
func (r *Repository) GetDatasetByID(ctx context.Context, id string) (*model.Dataset, error) {
	query := `
		SELECT id, project_id, name, columns, created_at, updated_at
		FROM datasets
		WHERE id = $1
	`

	var dataset model.Dataset
	var columns []string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&dataset.ID,
		&dataset.ProjectID,
		&dataset.Name,
		pq.Array(&columns),
		&dataset.CreatedAt,
		&dataset.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("failed to get dataset by ID: %w", err)
	}

	dataset.Columns = columns
	return &dataset, nil
}

// ListDatasetsByProject retrieves datasets owned by a project.
func (r *Repository) ListDatasetsByProject(ctx context.Context, projectID string) ([]*model.Dataset, error) {
	query := `
		SELECT id, project_id, name, columns, created_at, updated_at
		FROM datasets
		WHERE project_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*model.Dataset
	for rows.Next() {
		var dataset model.Dataset
		var columns []string
		err := rows.Scan(
			&dataset.ID,
			&dataset.ProjectID,
			&dataset.Name,
			pq.Array(&columns),
			&dataset.CreatedAt,
			&dataset.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		dataset.Columns = columns
		datasets = append(datasets, &dataset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}

	return datasets, nil
}

// DeleteDataset removes a dataset row. Returns true if a row existed
// and was removed.
func (r *Repository) DeleteDataset(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dataset: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
