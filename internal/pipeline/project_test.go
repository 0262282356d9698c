package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafael/adforge/internal/types"
)

func testBrief() *types.BrandBrief {
	return &types.BrandBrief{
		BrandName: "Verdant",
		Sector:    "home gardening kits",
		Objective: "conversion",
	}
}

func completeStage(t *testing.T, p *Project, s Stage, apply func(*Artifacts)) {
	t.Helper()
	epoch, err := p.Begin(s)
	require.NoError(t, err)
	require.NoError(t, p.Complete(s, epoch, apply))
}

func conceptArtifact() func(*Artifacts) {
	return func(a *Artifacts) {
		a.Concept = &types.Concept{MainConcept: "kitchen herb garden"}
	}
}

func copyArtifact() func(*Artifacts) {
	return func(a *Artifacts) {
		a.Copy = types.CopySet{"pt": {Language: "pt", Headline: "Olá"}}
	}
}

func designArtifact() func(*Artifacts) {
	return func(a *Artifacts) {
		a.Designs = []types.Design{{Path: "out/design.png"}}
	}
}

func brandArtifact() func(*Artifacts) {
	return func(a *Artifacts) {
		a.Brand = &types.BrandAssets{LogoPath: "out/logo.png"}
	}
}

func TestNewProject(t *testing.T) {
	p := NewProject("", testBrief())

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Epoch())
	for _, s := range Order() {
		assert.Equal(t, StatusPending, p.StatusOf(s), "stage %s", s)
	}
	assert.False(t, p.Done())
}

func TestNewProject_KeepsGivenID(t *testing.T) {
	p := NewProject("a1b2c3d4", testBrief())
	assert.Equal(t, "a1b2c3d4", p.ID)
}

func TestBegin_EnforcesStageOrder(t *testing.T) {
	p := NewProject("", testBrief())

	_, err := p.Begin(StageDesign)
	require.Error(t, err)

	var prereq *PrerequisiteError
	require.ErrorAs(t, err, &prereq)
	assert.Equal(t, StageDesign, prereq.Stage)
	assert.Contains(t, prereq.Missing, "concept stage not completed")
	assert.Contains(t, prereq.Missing, "copy stage not completed")
	assert.Contains(t, prereq.Missing, "concept artifact")
	assert.Contains(t, prereq.Missing, "copy decks")

	// The stage was not moved out of pending.
	assert.Equal(t, StatusPending, p.StatusOf(StageDesign))
}

func TestBegin_FullLifecycle(t *testing.T) {
	p := NewProject("", testBrief())

	completeStage(t, p, StageConcept, conceptArtifact())
	completeStage(t, p, StageCopy, copyArtifact())
	completeStage(t, p, StageDesign, designArtifact())
	completeStage(t, p, StageBranding, brandArtifact())
	completeStage(t, p, StageFinalize, func(a *Artifacts) {
		a.Finals = []types.FinalCreative{{Path: "out/final.png"}}
	})

	assert.True(t, p.Done())
	assert.Equal(t, Order(), p.Completed())
	assert.Equal(t, 1, p.Epoch())

	a := p.Artifacts()
	assert.NotNil(t, a.Concept)
	assert.NotNil(t, a.Brand)
	assert.Len(t, a.Finals, 1)
}

func TestCanRun_FinalizeNeedsBrandAssets(t *testing.T) {
	p := NewProject("", testBrief())
	completeStage(t, p, StageConcept, conceptArtifact())
	completeStage(t, p, StageCopy, copyArtifact())
	completeStage(t, p, StageDesign, designArtifact())

	err := p.CanRun(StageFinalize)
	require.Error(t, err)

	var prereq *PrerequisiteError
	require.ErrorAs(t, err, &prereq)
	assert.Contains(t, prereq.Missing, "branding stage not completed")
	assert.Contains(t, prereq.Missing, "brand assets")
	assert.NotContains(t, prereq.Missing, "design artifacts")
}

func TestComplete_RejectsStaleEpoch(t *testing.T) {
	p := NewProject("", testBrief())

	epoch, err := p.Begin(StageConcept)
	require.NoError(t, err)

	// A reset while the stage is in flight advances the epoch.
	require.NoError(t, p.Invalidate(StageConcept))

	err = p.Complete(StageConcept, epoch, conceptArtifact())
	require.Error(t, err)

	var stale *StaleArtifactError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, StageConcept, stale.Stage)
	assert.Equal(t, 1, stale.Have)
	assert.Equal(t, 2, stale.Want)

	// The late artifact was discarded and the stage is pending again.
	assert.Nil(t, p.Artifacts().Concept)
	assert.Equal(t, StatusPending, p.StatusOf(StageConcept))
}

func TestComplete_RequiresRunningStage(t *testing.T) {
	p := NewProject("", testBrief())

	err := p.Complete(StageConcept, p.Epoch(), conceptArtifact())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestInvalidate_ClearsLaterArtifacts(t *testing.T) {
	p := NewProject("", testBrief())
	completeStage(t, p, StageConcept, conceptArtifact())
	completeStage(t, p, StageCopy, copyArtifact())
	completeStage(t, p, StageDesign, designArtifact())
	completeStage(t, p, StageBranding, brandArtifact())

	require.NoError(t, p.Invalidate(StageCopy))

	a := p.Artifacts()
	assert.NotNil(t, a.Concept, "earlier artifacts survive")
	assert.Nil(t, a.Copy)
	assert.Nil(t, a.Designs)
	assert.Nil(t, a.Brand)

	assert.Equal(t, StatusCompleted, p.StatusOf(StageConcept))
	assert.Equal(t, StatusPending, p.StatusOf(StageCopy))
	assert.Equal(t, StatusPending, p.StatusOf(StageDesign))
	assert.Equal(t, StatusPending, p.StatusOf(StageBranding))
	assert.Equal(t, 2, p.Epoch())
}

func TestFail(t *testing.T) {
	p := NewProject("", testBrief())
	_, err := p.Begin(StageConcept)
	require.NoError(t, err)

	cause := errors.New("model unavailable")
	stageErr := p.Fail(StageConcept, cause)

	assert.Equal(t, "concept stage failed: model unavailable", stageErr.Error())
	assert.ErrorIs(t, stageErr, cause)
	assert.Equal(t, StatusFailed, p.StatusOf(StageConcept))

	failed, ok := p.FailedStage()
	assert.True(t, ok)
	assert.Equal(t, StageConcept, failed)
}

func TestRestore(t *testing.T) {
	p := NewProject("a1b2c3d4", testBrief())
	p.restore(3, map[string]string{
		"concept":  "completed",
		"copy":     "completed",
		"design":   "running",
		"branding": "failed",
	}, Artifacts{
		Concept: &types.Concept{MainConcept: "kitchen herb garden"},
		Copy:    types.CopySet{"pt": {Language: "pt", Headline: "Olá"}},
	})

	assert.Equal(t, 3, p.Epoch())
	assert.Equal(t, StatusCompleted, p.StatusOf(StageConcept))
	assert.Equal(t, StatusCompleted, p.StatusOf(StageCopy))
	assert.Equal(t, StatusPending, p.StatusOf(StageDesign), "interrupted stages restart")
	assert.Equal(t, StatusPending, p.StatusOf(StageBranding), "failed stages restart")
	assert.Equal(t, StatusPending, p.StatusOf(StageFinalize))

	// Design can run straight away against the restored artifacts.
	assert.NoError(t, p.CanRun(StageDesign))
}

func TestStatuses_ReturnsCopy(t *testing.T) {
	p := NewProject("", testBrief())
	statuses := p.Statuses()
	statuses["concept"] = "completed"

	assert.Equal(t, StatusPending, p.StatusOf(StageConcept))
}
