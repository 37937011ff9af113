package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAuthSuccess is a no-op.
func (n *NoopRecorder) IncAuthSuccess(cacheHit bool) {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure(reason string) {}

// ObserveResolveDuration is a no-op.
func (n *NoopRecorder) ObserveResolveDuration(duration time.Duration) {}

// IncProjectCreated is a no-op.
func (n *NoopRecorder) IncProjectCreated() {}

// IncProjectDeleted is a no-op.
func (n *NoopRecorder) IncProjectDeleted() {}

// IncKeyCreated is a no-op.
func (n *NoopRecorder) IncKeyCreated() {}

// IncKeyRevoked is a no-op.
func (n *NoopRecorder) IncKeyRevoked() {}

// IncJobCreated is a no-op.
func (n *NoopRecorder) IncJobCreated() {}
