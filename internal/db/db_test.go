package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "running", RunStatusRunning)
	assert.Equal(t, "completed", RunStatusCompleted)
	assert.Equal(t, "failed", RunStatusFailed)

	assert.Equal(t, "running", StageStatusRunning)
	assert.Equal(t, "completed", StageStatusCompleted)
	assert.Equal(t, "failed", StageStatusFailed)
	assert.Equal(t, "skipped", StageStatusSkipped)
}

func TestRunType(t *testing.T) {
	run := Run{
		ProjectID: "a1b2c3d4",
		BrandName: "Aurora Fit",
		Status:    RunStatusRunning,
	}

	assert.Equal(t, "a1b2c3d4", run.ProjectID)
	assert.Equal(t, "Aurora Fit", run.BrandName)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
	assert.Zero(t, run.Epoch)
}

func TestCreativeType(t *testing.T) {
	c := Creative{
		Stage:        CreativeStageFinal,
		Scheme:       "vibrant",
		Format:       "1:1",
		Language:     "pt",
		VariantIndex: 3,
		Filename:     "a1b2c3d4_final_pt_vibrant_1x1_1700000000.png",
	}

	assert.Equal(t, "final", c.Stage)
	assert.Equal(t, 3, c.VariantIndex)
	assert.NotEmpty(t, c.Filename)
}
