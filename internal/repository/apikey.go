package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/baynext/baynext/internal/model"
)

// ErrKeyNotFound indicates no API key row matched the lookup.
var ErrKeyNotFound = errors.New("API key not found")

// CreateKey inserts a new API key into the database.
func (r *Repository) CreateKey(ctx context.Context, key *model.Key) error {
	query := `
		INSERT INTO api_key (id, project_id, description, secret_hash, prefix, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.ProjectID,
		key.Description,
		key.SecretHash,
		key.Prefix,
		key.IsActive,
		key.ExpiresAt,
		key.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// GetKeyByID retrieves an API key by its ID.
func (r *Repository) GetKeyByID(ctx context.Context, id string) (*model.Key, error) {
	query := `
		SELECT id, project_id, description, secret_hash, prefix, is_active, expires_at, created_at, updated_at
		FROM api_key
		WHERE id = $1
	`

	return scanKey(r.pool.QueryRow(ctx, query, id))
}

// GetKeysByPrefix retrieves all active API keys matching a visible
// prefix. Used during authentication to find candidate keys for
// constant-time verification.
func (r *Repository) GetKeysByPrefix(ctx context.Context, prefix string) ([]*model.Key, error) {
	query := `
		SELECT id, project_id, description, secret_hash, prefix, is_active, expires_at, created_at, updated_at
		FROM api_key
		WHERE prefix = $1 AND is_active
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get API keys by prefix: %w", err)
	}
	defer rows.Close()

	return collectKeys(rows)
}

// ListKeysByProject retrieves all API keys owned by a project.
func (r *Repository) ListKeysByProject(ctx context.Context, projectID string) ([]*model.Key, error) {
	query := `
		SELECT id, project_id, description, secret_hash, prefix, is_active, expires_at, created_at, updated_at
		FROM api_key
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	return collectKeys(rows)
}

// RevokeKey deactivates an API key. Revocation is a soft flag flip,
// not a delete.
func (r *Repository) RevokeKey(ctx context.Context, id string) error {
	query := `
		UPDATE api_key
		SET is_active = FALSE, updated_at = $2
		WHERE id = $1 AND is_active
	`

	result, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrKeyNotFound
	}

	return nil
}

// scanKey scans a single row into a Key model.
func scanKey(row pgx.Row) (*model.Key, error) {
	var key model.Key

	err := row.Scan(
		&key.ID,
		&key.ProjectID,
		&key.Description,
		&key.SecretHash,
		&key.Prefix,
		&key.IsActive,
		&key.ExpiresAt,
		&key.CreatedAt,
		&key.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to scan API key: %w", err)
	}

	return &key, nil
}

// collectKeys drains rows into Key models.
func collectKeys(rows pgx.Rows) ([]*model.Key, error) {
	var keys []*model.Key
	for rows.Next() {
		var key model.Key
		err := rows.Scan(
			&key.ID,
			&key.ProjectID,
			&key.Description,
			&key.SecretHash,
			&key.Prefix,
			&key.IsActive,
			&key.ExpiresAt,
			&key.CreatedAt,
			&key.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return keys, nil
}
