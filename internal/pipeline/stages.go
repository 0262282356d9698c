// Package pipeline owns the stage state machine and the run orchestrator. The
// machine enforces stage order and artifact prerequisites; how each stage
// computes its artifact is delegated to the stage executor packages.
package pipeline

// Stage is one step of the creative pipeline.
type Stage string

// Pipeline stages in canonical order.
const (
	StageConcept  Stage = "concept"
	StageCopy     Stage = "copy"
	StageDesign   Stage = "design"
	StageBranding Stage = "branding"
	StageFinalize Stage = "finalize"
)

// Order returns the canonical stage sequence.
func Order() []Stage {
	return []Stage{StageConcept, StageCopy, StageDesign, StageBranding, StageFinalize}
}

// position returns the stage's index in canonical order, or -1.
func position(s Stage) int {
	for i, stage := range Order() {
		if stage == s {
			return i
		}
	}
	return -1
}

// requires reports which prerequisite artifacts are missing for a stage. Stage
// ordering is checked separately; this guards the referential invariant that a
// stage never consumes an artifact that was not successfully produced.
func requires(s Stage, a *Artifacts) []string {
	var missing []string
	switch s {
	case StageCopy:
		if a.Concept == nil {
			missing = append(missing, "concept artifact")
		}
	case StageDesign:
		if a.Concept == nil {
			missing = append(missing, "concept artifact")
		}
		if len(a.Copy) == 0 {
			missing = append(missing, "copy decks")
		}
	case StageFinalize:
		if len(a.Designs) == 0 {
			missing = append(missing, "design artifacts")
		}
		if len(a.Copy) == 0 {
			missing = append(missing, "copy decks")
		}
		if a.Brand == nil {
			missing = append(missing, "brand assets")
		}
	}
	return missing
}

// clearFrom drops the artifacts of stage s and every stage after it.
func clearFrom(s Stage, a *Artifacts) {
	from := position(s)
	for i, stage := range Order() {
		if i < from {
			continue
		}
		switch stage {
		case StageConcept:
			a.Concept = nil
		case StageCopy:
			a.Copy = nil
		case StageDesign:
			a.Designs = nil
			a.DesignFailures = nil
		case StageBranding:
			a.Brand = nil
		case StageFinalize:
			a.Finals = nil
			a.FinalFailures = nil
		}
	}
}
