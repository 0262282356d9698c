package pipeline

import (
	"fmt"
	"strings"
)

// PrerequisiteError reports an attempt to run a stage whose prerequisites are
// not satisfied. This is state-machine misuse, not an external failure, and is
// never retried.
type PrerequisiteError struct {
	Stage   Stage
	Missing []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("cannot run %s stage: missing %s", e.Stage, strings.Join(e.Missing, ", "))
}

// StageError wraps the failure that aborted a stage.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// StaleArtifactError reports an artifact delivered for an epoch that a reset
// or regeneration has since invalidated. The artifact is discarded.
type StaleArtifactError struct {
	Stage Stage
	Have  int
	Want  int
}

func (e *StaleArtifactError) Error() string {
	return fmt.Sprintf("discarding %s artifact from epoch %d, project is at epoch %d", e.Stage, e.Have, e.Want)
}
