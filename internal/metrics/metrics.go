// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncAuthSuccess(cacheHit bool)
	IncAuthFailure(reason string) // reason: "missing", "invalid"
	ObserveResolveDuration(duration time.Duration)

	// Entity lifecycle metrics
	IncProjectCreated()
	IncProjectDeleted()
	IncKeyCreated()
	IncKeyRevoked()
	IncJobCreated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
