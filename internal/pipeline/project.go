package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rafael/adforge/internal/types"
)

// Status of a stage within a project.
type Status string

// Stage statuses. The string values match the database and manifest records.
// Skipped appears only in progress events and stage records, never in the
// project ledger.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Artifacts holds everything the stages have produced so far. Only the state
// machine mutates it, through Complete.
type Artifacts struct {
	Concept        *types.Concept
	Copy           types.CopySet
	Designs        []types.Design
	DesignFailures []types.VariantFailure
	Brand          *types.BrandAssets
	Finals         []types.FinalCreative
	FinalFailures  []types.VariantFailure
}

// Project is the pipeline context for one run: the brief, the per-stage
// statuses, and the artifacts completed stages produced. The epoch counter
// invalidates in-flight work across resets.
type Project struct {
	ID    string
	Brief *types.BrandBrief

	mu        sync.Mutex
	epoch     int
	status    map[Stage]Status
	artifacts Artifacts
}

// NewProjectID returns a short random project identifier.
func NewProjectID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// NewProject creates a project at epoch 1 with every stage pending.
func NewProject(id string, brief *types.BrandBrief) *Project {
	if id == "" {
		id = NewProjectID()
	}
	status := make(map[Stage]Status, len(Order()))
	for _, s := range Order() {
		status[s] = StatusPending
	}
	return &Project{
		ID:     id,
		Brief:  brief,
		epoch:  1,
		status: status,
	}
}

// Epoch returns the current artifact epoch.
func (p *Project) Epoch() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

// StatusOf returns a stage's status.
func (p *Project) StatusOf(s Stage) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status[s]
}

// Statuses returns a copy of the stage ledger, keyed by stage name.
func (p *Project) Statuses() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.status))
	for s, st := range p.status {
		out[string(s)] = string(st)
	}
	return out
}

// Artifacts returns the project's artifact set. Callers treat it as read-only;
// stages deliver results through Complete.
func (p *Project) Artifacts() *Artifacts {
	return &p.artifacts
}

// Completed returns the completed stages in canonical order.
func (p *Project) Completed() []Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var done []Stage
	for _, s := range Order() {
		if p.status[s] == StatusCompleted {
			done = append(done, s)
		}
	}
	return done
}

// Done reports whether every stage completed.
func (p *Project) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range Order() {
		if p.status[s] != StatusCompleted {
			return false
		}
	}
	return true
}

// FailedStage returns the failed stage, if any.
func (p *Project) FailedStage() (Stage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range Order() {
		if p.status[s] == StatusFailed {
			return s, true
		}
	}
	return "", false
}

// CanRun reports whether a stage may run now. Every earlier stage must have
// completed and the stage's prerequisite artifacts must exist; violations come
// back as a *PrerequisiteError.
func (p *Project) CanRun(s Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canRunLocked(s)
}

func (p *Project) canRunLocked(s Stage) error {
	pos := position(s)
	if pos < 0 {
		return fmt.Errorf("unknown stage %q", s)
	}

	var missing []string
	for i, earlier := range Order() {
		if i >= pos {
			break
		}
		if p.status[earlier] != StatusCompleted {
			missing = append(missing, fmt.Sprintf("%s stage not completed", earlier))
		}
	}
	missing = append(missing, requires(s, &p.artifacts)...)

	if len(missing) > 0 {
		return &PrerequisiteError{Stage: s, Missing: missing}
	}
	return nil
}

// Begin marks a stage running and returns the epoch token its artifact must be
// delivered under.
func (p *Project) Begin(s Stage) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.canRunLocked(s); err != nil {
		return 0, err
	}
	p.status[s] = StatusRunning
	return p.epoch, nil
}

// Complete accepts a stage's artifact. The apply function mutates the artifact
// set while the lock is held. An epoch token that no longer matches means the
// project was reset while the stage ran; the artifact is rejected.
func (p *Project) Complete(s Stage, epoch int, apply func(*Artifacts)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch != p.epoch {
		return &StaleArtifactError{Stage: s, Have: epoch, Want: p.epoch}
	}
	if p.status[s] != StatusRunning {
		return fmt.Errorf("%s stage is %s, not running", s, p.status[s])
	}
	if apply != nil {
		apply(&p.artifacts)
	}
	p.status[s] = StatusCompleted
	return nil
}

// Fail marks a stage failed and returns the wrapping StageError.
func (p *Project) Fail(s Stage, cause error) *StageError {
	p.mu.Lock()
	p.status[s] = StatusFailed
	p.mu.Unlock()
	return &StageError{Stage: s, Cause: cause}
}

// Invalidate re-opens a stage: its artifacts and those of every later stage
// are dropped, their statuses reset to pending, and the epoch advances so
// in-flight artifacts from before the reset are rejected.
func (p *Project) Invalidate(s Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := position(s)
	if pos < 0 {
		return fmt.Errorf("unknown stage %q", s)
	}
	for i, stage := range Order() {
		if i >= pos {
			p.status[stage] = StatusPending
		}
	}
	clearFrom(s, &p.artifacts)
	p.epoch++
	return nil
}

// restore seeds statuses, artifacts, and the epoch from a previous run's
// snapshot. Running and failed stages come back pending so the run re-executes
// them; completed stages keep their artifacts.
func (p *Project) restore(epoch int, statuses map[string]string, a Artifacts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch > 0 {
		p.epoch = epoch
	}
	for _, s := range Order() {
		switch Status(statuses[string(s)]) {
		case StatusCompleted:
			p.status[s] = StatusCompleted
		default:
			p.status[s] = StatusPending
		}
	}
	p.artifacts = a
}
