// Package model defines domain entities for the application.
package model

import "time"

// User represents a locally persisted identity resolved from the
// external identity provider. Users are created implicitly on the
// first successful credential resolution.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
