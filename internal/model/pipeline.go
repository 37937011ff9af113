package model

import (
	"encoding/json"
	"time"
)

// Pipeline binds a dataset to an opaque model-specification document.
// Pipelines are owned transitively through their project.
type Pipeline struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	DatasetID   string          `json:"dataset_id"`
	DisplayName string          `json:"display_name"`
	ModelSpec   json.RawMessage `json:"model_spec"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// PipelineCreateRequest is the request body for creating a pipeline.
// ModelSpec is stored as-is; the document format belongs to the
// training backend, not this API.
type PipelineCreateRequest struct {
	DisplayName string          `json:"display_name"`
	DatasetID   string          `json:"dataset_id"`
	ModelSpec   json.RawMessage `json:"model_spec"`
}

// PipelineResponse is the public projection of a pipeline.
type PipelineResponse struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	DatasetID   string          `json:"dataset_id"`
	ModelSpec   json.RawMessage `json:"model_spec"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts a Pipeline to its public projection.
func (p *Pipeline) ToResponse() PipelineResponse {
	return PipelineResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		DatasetID:   p.DatasetID,
		ModelSpec:   p.ModelSpec,
		CreatedAt:   p.CreatedAt,
	}
}
