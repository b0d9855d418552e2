// Package jobs implements the async job manager: a snapshot state
// machine wrapping any tool or pipeline execution with cooperative
// cancellation and progress events, generalized from the teacher's
// DB-backed session worker to an in-process map guarded by a
// reader-writer lock.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is one of the five states a job snapshot can be in.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCanceled
}

// ErrorPayload is the structured error carried by a failed or canceled
// snapshot.
type ErrorPayload struct {
	Kind    string
	Message string
}

// Snapshot is the full state-machine view of one async execution.
type Snapshot struct {
	JobID       string
	ToolName    string
	Status      Status
	ProgressPct int
	Stage       string
	Message     string
	Output      any
	Error       *ErrorPayload
}

// assertInvariants debug-checks the §3 job-snapshot invariants on every
// mutation: succeeded implies output set, error absent, progress=100;
// failed/canceled implies error set.
func assertInvariants(s Snapshot) {
	switch s.Status {
	case StatusSucceeded:
		if s.Output == nil || s.Error != nil || s.ProgressPct != 100 {
			panic("job snapshot invariant violated for succeeded status")
		}
	case StatusFailed, StatusCanceled:
		if s.Error == nil {
			panic("job snapshot invariant violated: terminal failure without error")
		}
	}
}

// Execute is the narrow callable the job manager wraps.
type Execute func(ctx context.Context) (any, error)

// EventPublisher receives progress notifications as a job's snapshot
// transitions, shaped like the teacher's *StatusPayload structs.
type EventPublisher interface {
	PublishJobProgress(ctx context.Context, snapshot Snapshot)
	PublishJobCompleted(ctx context.Context, snapshot Snapshot)
	PublishJobFailed(ctx context.Context, snapshot Snapshot)
}

// NoopPublisher discards every event; useful for tests and for callers
// that don't need progress streaming.
type NoopPublisher struct{}

func (NoopPublisher) PublishJobProgress(context.Context, Snapshot) {}
func (NoopPublisher) PublishJobCompleted(context.Context, Snapshot) {}
func (NoopPublisher) PublishJobFailed(context.Context, Snapshot)    {}

// Manager owns the in-process job map. Writers hold the lock only for
// the duration of a single snapshot mutation.
type Manager struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	canceled  map[string]struct{}
	publisher EventPublisher
	log       *slog.Logger
}

// NewManager constructs an empty job manager publishing events through
// publisher (use NoopPublisher{} if none is needed).
func NewManager(publisher EventPublisher) *Manager {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Manager{
		snapshots: map[string]Snapshot{},
		canceled:  map[string]struct{}{},
		publisher: publisher,
		log:       slog.With("component", "jobs.Manager"),
	}
}

func (m *Manager) set(snapshot Snapshot) {
	assertInvariants(snapshot)
	m.mu.Lock()
	m.snapshots[snapshot.JobID] = snapshot
	m.mu.Unlock()
}

// Get returns a copy of the current snapshot for id.
func (m *Manager) Get(id string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	return s, ok
}

// Start registers a queued snapshot for toolName, spawns the execution
// in its own goroutine, and returns the job id immediately.
func (m *Manager) Start(ctx context.Context, toolName string, exec Execute) string {
	id := uuid.NewString()
	snapshot := Snapshot{JobID: id, ToolName: toolName, Status: StatusQueued, ProgressPct: 0, Stage: "queued"}
	m.set(snapshot)
	m.publisher.PublishJobProgress(ctx, snapshot)
	m.log.Debug("job queued", "job_id", id, "tool_name", toolName)

	go m.run(ctx, id, exec)
	return id
}

func (m *Manager) isCanceled(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.canceled[id]
	return ok
}

func (m *Manager) run(ctx context.Context, id string, exec Execute) {
	if m.isCanceled(id) {
		m.finishCanceled(ctx, id)
		return
	}

	running := Snapshot{JobID: id, Status: StatusRunning, ProgressPct: 10, Stage: "running"}
	m.mergeAndSet(running)
	m.publisher.PublishJobProgress(ctx, m.mustGet(id))

	if m.isCanceled(id) {
		m.finishCanceled(ctx, id)
		return
	}

	output, err := exec(ctx)

	if m.isCanceled(id) {
		m.finishCanceled(ctx, id)
		return
	}

	if err != nil {
		failed := Snapshot{JobID: id, Status: StatusFailed, ProgressPct: 99, Stage: "failed",
			Error: &ErrorPayload{Kind: "tool_execution_error", Message: err.Error()}}
		m.mergeAndSet(failed)
		m.publisher.PublishJobFailed(ctx, m.mustGet(id))
		m.log.Error("job failed", "job_id", id, "error", err)
		return
	}

	succeeded := Snapshot{JobID: id, Status: StatusSucceeded, ProgressPct: 100, Stage: "completed", Output: output}
	m.mergeAndSet(succeeded)
	m.publisher.PublishJobCompleted(ctx, m.mustGet(id))
	m.log.Debug("job succeeded", "job_id", id)
}

func (m *Manager) mergeAndSet(partial Snapshot) {
	m.mu.Lock()
	cur := m.snapshots[partial.JobID]
	cur.Status = partial.Status
	cur.ProgressPct = partial.ProgressPct
	cur.Stage = partial.Stage
	if partial.Output != nil {
		cur.Output = partial.Output
	}
	if partial.Error != nil {
		cur.Error = partial.Error
	}
	m.snapshots[partial.JobID] = cur
	m.mu.Unlock()
	assertInvariants(cur)
}

func (m *Manager) mustGet(id string) Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[id]
}

func (m *Manager) finishCanceled(ctx context.Context, id string) {
	m.mu.Lock()
	cur := m.snapshots[id]
	if cur.Status.Terminal() {
		m.mu.Unlock()
		return
	}
	cur.Status = StatusCanceled
	cur.Error = &ErrorPayload{Kind: "canceled", Message: "job was canceled"}
	m.snapshots[id] = cur
	m.mu.Unlock()
	assertInvariants(cur)
	m.publisher.PublishJobFailed(ctx, cur)
}

// Cancel marks id as canceled. Pending cancellations are sticky: once
// seen, any future transition for id goes to canceled. If the snapshot
// is already non-terminal it is flipped immediately.
func (m *Manager) Cancel(ctx context.Context, id string) {
	m.mu.Lock()
	m.canceled[id] = struct{}{}
	cur, ok := m.snapshots[id]
	alreadyTerminal := ok && cur.Status.Terminal()
	m.mu.Unlock()

	if ok && !alreadyTerminal {
		m.finishCanceled(ctx, id)
	}
}

// WaitForTerminalState polls every 100ms until id reaches a terminal
// status or timeout elapses.
func (m *Manager) WaitForTerminalState(ctx context.Context, id string, timeout time.Duration) (Snapshot, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if s, ok := m.Get(id); ok && s.Status.Terminal() {
			return s, true
		}
		if time.Now().After(deadline) {
			s, _ := m.Get(id)
			return s, false
		}
		select {
		case <-ctx.Done():
			s, _ := m.Get(id)
			return s, false
		case <-time.After(100 * time.Millisecond):
		}
	}
}
