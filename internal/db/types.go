package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a pipeline run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   string     `json:"project_id"`
	BrandName   string     `json:"brand_name"`
	Objective   string     `json:"objective"`
	Tier        string     `json:"tier"`
	Status      string     `json:"status"`
	Epoch       int        `json:"epoch"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// StageRecord represents one stage execution inside a run
type StageRecord struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Stage        string     `json:"stage"`
	Status       string     `json:"status"`
	Attempt      int        `json:"attempt"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	Artifact     any        `json:"artifact,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Stage status constants
const (
	StageStatusRunning   = "running"
	StageStatusCompleted = "completed"
	StageStatusFailed    = "failed"
	StageStatusSkipped   = "skipped"
)

// Creative represents one generated creative file (a design or a final)
type Creative struct {
	ID           uuid.UUID `json:"id"`
	RunID        uuid.UUID `json:"run_id"`
	Stage        string    `json:"stage"`
	Scheme       string    `json:"scheme"`
	Format       string    `json:"format"`
	Language     string    `json:"language"`
	VariantIndex int       `json:"variant_index"`
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Prompt       string    `json:"prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Creative stage constants
const (
	CreativeStageDesign = "design"
	CreativeStageFinal  = "final"
)
