package model

import "time"

// Job status values.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// Job is a single execution of a pipeline. Jobs are created in the
// pending state; status transitions belong to the training backend.
type Job struct {
	ID         string     `json:"id"`
	PipelineID string     `json:"pipeline_id"`
	ProjectID  string     `json:"project_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// JobResponse is the public projection of a job.
type JobResponse struct {
	ID         string    `json:"id"`
	PipelineID string    `json:"pipeline_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts a Job to its public projection.
func (j *Job) ToResponse() JobResponse {
	return JobResponse{
		ID:         j.ID,
		PipelineID: j.PipelineID,
		Status:     j.Status,
		CreatedAt:  j.CreatedAt,
	}
}
