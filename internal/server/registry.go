package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rafael/adforge/internal/pipeline"
)

// runState tracks one pipeline run for the API: the live status, the buffered
// progress events, and the SSE subscribers listening for new ones.
type runState struct {
	mu sync.Mutex

	projectID string
	brandName string
	tier      string
	status    string
	errMsg    string
	variants  int
	warnings  []string
	startedAt time.Time
	endedAt   *time.Time

	events      []pipeline.ProgressEvent
	subscribers map[chan pipeline.ProgressEvent]struct{}
}

func (rs *runState) snapshot() RunSummary {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return RunSummary{
		ProjectID: rs.projectID,
		BrandName: rs.brandName,
		Tier:      rs.tier,
		Status:    rs.status,
		Error:     rs.errMsg,
		Variants:  rs.variants,
		Warnings:  rs.warnings,
		StartedAt: rs.startedAt,
		EndedAt:   rs.endedAt,
	}
}

// publish buffers the event and fans it out. Slow subscribers drop events
// rather than stall the pipeline goroutine; they still see the buffered
// history on subscribe and the terminal status on completion.
func (rs *runState) publish(event pipeline.ProgressEvent) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.events = append(rs.events, event)
	for ch := range rs.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// finish records the terminal status and closes every subscriber channel.
func (rs *runState) finish(status, errMsg string, variants int, warnings []string) {
	now := time.Now()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status = status
	rs.errMsg = errMsg
	if variants > 0 {
		rs.variants = variants
	}
	rs.warnings = warnings
	rs.endedAt = &now
	for ch := range rs.subscribers {
		close(ch)
	}
	rs.subscribers = nil
}

// subscribe returns the buffered history plus a live channel. The channel is
// nil when the run already ended. cancel detaches the subscriber; it is safe
// to call after the run finished.
func (rs *runState) subscribe() (history []pipeline.ProgressEvent, live chan pipeline.ProgressEvent, cancel func()) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	history = make([]pipeline.ProgressEvent, len(rs.events))
	copy(history, rs.events)

	if rs.endedAt != nil {
		return history, nil, func() {}
	}

	ch := make(chan pipeline.ProgressEvent, 64)
	if rs.subscribers == nil {
		rs.subscribers = make(map[chan pipeline.ProgressEvent]struct{})
	}
	rs.subscribers[ch] = struct{}{}

	cancel = func() {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		if _, ok := rs.subscribers[ch]; ok {
			delete(rs.subscribers, ch)
			close(ch)
		}
	}
	return history, ch, cancel
}

func (rs *runState) running() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.endedAt == nil
}

// runRegistry is the in-process index of pipeline runs the server launched.
// It is the source of truth for live runs; the database, when configured,
// keeps history across restarts.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]*runState
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*runState)}
}

// create registers a new run. A project with a run still in flight cannot be
// started again.
func (r *runRegistry) create(projectID, brandName, tier string) (*runState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.runs[projectID]; ok && existing.running() {
		return nil, fmt.Errorf("project %s already has a run in progress", projectID)
	}
	state := &runState{
		projectID: projectID,
		brandName: brandName,
		tier:      tier,
		status:    string(pipeline.StatusRunning),
		startedAt: time.Now(),
	}
	r.runs[projectID] = state
	return state, nil
}

func (r *runRegistry) get(projectID string) *runState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runs[projectID]
}

func (r *runRegistry) remove(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, projectID)
}

// list returns run summaries, newest first.
func (r *runRegistry) list() []RunSummary {
	r.mu.RLock()
	states := make([]*runState, 0, len(r.runs))
	for _, rs := range r.runs {
		states = append(states, rs)
	}
	r.mu.RUnlock()

	out := make([]RunSummary, len(states))
	for i, rs := range states {
		out[i] = rs.snapshot()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
