package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AuthSuccesses          uint64
	AuthCacheHits          uint64
	AuthFailures           uint64
	ResolveDurationCount   uint64
	ResolveDurationTotalNs int64
	ProjectsCreated        uint64
	ProjectsDeleted        uint64
	KeysCreated            uint64
	KeysRevoked            uint64
	JobsCreated            uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	authSuccesses          uint64
	authCacheHits          uint64
	authFailures           uint64
	resolveDurationCount   uint64
	resolveDurationTotalNs int64
	projectsCreated        uint64
	projectsDeleted        uint64
	keysCreated            uint64
	keysRevoked            uint64
	jobsCreated            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		AuthSuccesses:          atomic.LoadUint64(&m.authSuccesses),
		AuthCacheHits:          atomic.LoadUint64(&m.authCacheHits),
		AuthFailures:           atomic.LoadUint64(&m.authFailures),
		ResolveDurationCount:   atomic.LoadUint64(&m.resolveDurationCount),
		ResolveDurationTotalNs: atomic.LoadInt64(&m.resolveDurationTotalNs),
		ProjectsCreated:        atomic.LoadUint64(&m.projectsCreated),
		ProjectsDeleted:        atomic.LoadUint64(&m.projectsDeleted),
		KeysCreated:            atomic.LoadUint64(&m.keysCreated),
		KeysRevoked:            atomic.LoadUint64(&m.keysRevoked),
		JobsCreated:            atomic.LoadUint64(&m.jobsCreated),
	}
}

// IncAuthSuccess increments the auth success counter.
func (m *InMemoryRecorder) IncAuthSuccess(cacheHit bool) {
	atomic.AddUint64(&m.authSuccesses, 1)
	if cacheHit {
		atomic.AddUint64(&m.authCacheHits, 1)
	}
}

// IncAuthFailure increments the auth failure counter.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	atomic.AddUint64(&m.authFailures, 1)
}

// ObserveResolveDuration records credential resolution duration.
func (m *InMemoryRecorder) ObserveResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.resolveDurationCount, 1)
	atomic.AddInt64(&m.resolveDurationTotalNs, duration.Nanoseconds())
}

// IncProjectCreated increments the project creation counter.
func (m *InMemoryRecorder) IncProjectCreated() {
	atomic.AddUint64(&m.projectsCreated, 1)
}

// IncProjectDeleted increments the project deletion counter.
func (m *InMemoryRecorder) IncProjectDeleted() {
	atomic.AddUint64(&m.projectsDeleted, 1)
}

// IncKeyCreated increments the key creation counter.
func (m *InMemoryRecorder) IncKeyCreated() {
	atomic.AddUint64(&m.keysCreated, 1)
}

// IncKeyRevoked increments the key revocation counter.
func (m *InMemoryRecorder) IncKeyRevoked() {
	atomic.AddUint64(&m.keysRevoked, 1)
}

// IncJobCreated increments the job creation counter.
func (m *InMemoryRecorder) IncJobCreated() {
	atomic.AddUint64(&m.jobsCreated, 1)
}
