package model

import "time"

// Dataset is a data source owned by a project. Columns records the
// header of the uploaded data for downstream pipeline validation.
type Dataset struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	Columns   []string   `json:"columns"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DatasetCreateRequest is the request body for registering a dataset.
type DatasetCreateRequest struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// DatasetResponse is the public projection of a dataset.
type DatasetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a Dataset to its public projection.
func (d *Dataset) ToResponse() DatasetResponse {
	return DatasetResponse{
		ID:        d.ID,
		Name:      d.Name,
		Columns:   d.Columns,
		CreatedAt: d.CreatedAt,
	}
}
