package server

import (
	"time"

	"github.com/rafael/adforge/internal/types"
)

// BriefPayload is the briefing part of a run request.
type BriefPayload struct {
	BrandName      string `json:"brand_name" validate:"required,min=2,max=120"`
	Sector         string `json:"sector,omitempty" validate:"max=200"`
	TargetAudience string `json:"target_audience,omitempty" validate:"max=500"`
	Objective      string `json:"objective" validate:"required,min=3,max=500"`
	ToneOfVoice    string `json:"tone_of_voice,omitempty" validate:"max=200"`
	Description    string `json:"description,omitempty" validate:"max=4000"`
	Website        string `json:"website,omitempty" validate:"omitempty,max=300"`
}

func (p *BriefPayload) toBrief() *types.BrandBrief {
	return &types.BrandBrief{
		BrandName:      p.BrandName,
		Sector:         p.Sector,
		TargetAudience: p.TargetAudience,
		Objective:      p.Objective,
		ToneOfVoice:    p.ToneOfVoice,
		Description:    p.Description,
		Website:        p.Website,
	}
}

// CreateRunRequest is the POST /api/runs body. Brief is required unless the
// request resumes an existing project, in which case it comes from the
// manifest.
type CreateRunRequest struct {
	Brief         *BriefPayload `json:"brief,omitempty"`
	Tier          string        `json:"tier,omitempty" validate:"omitempty,oneof=minimal standard full"`
	Schemes       []string      `json:"schemes,omitempty" validate:"max=16,dive,min=1"`
	Formats       []string      `json:"formats,omitempty" validate:"max=16,dive,min=1"`
	Languages     []string      `json:"languages,omitempty" validate:"max=16,dive,min=2"`
	BaseLanguage  string        `json:"base_language,omitempty"`
	Workers       int           `json:"workers,omitempty" validate:"omitempty,min=1,max=16"`
	PacingSeconds float64       `json:"pacing_seconds,omitempty" validate:"omitempty,min=0,max=60"`
	ProjectID     string        `json:"project_id,omitempty" validate:"omitempty,min=4,max=64"`
	Resume        bool          `json:"resume,omitempty"`
}

// RunSummary is the list-level view of a run.
type RunSummary struct {
	ProjectID string     `json:"project_id"`
	BrandName string     `json:"brand_name,omitempty"`
	Tier      string     `json:"tier,omitempty"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Variants  int        `json:"variants,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// RunDetail adds the stage ledger and per-variant failures to a summary.
type RunDetail struct {
	RunSummary
	Epoch          int                    `json:"epoch,omitempty"`
	Stages         map[string]string      `json:"stages,omitempty"`
	DesignFailures []types.VariantFailure `json:"design_failures,omitempty"`
	FinalFailures  []types.VariantFailure `json:"final_failures,omitempty"`
}

// CreativesResponse lists the files a run produced.
type CreativesResponse struct {
	ProjectID string                `json:"project_id"`
	Designs   []types.Design        `json:"designs,omitempty"`
	Finals    []types.FinalCreative `json:"finals,omitempty"`
	Brand     *types.BrandAssets    `json:"brand_assets,omitempty"`
}
