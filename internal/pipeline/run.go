package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/branding"
	"github.com/rafael/adforge/internal/concept"
	"github.com/rafael/adforge/internal/copywrite"
	"github.com/rafael/adforge/internal/db"
	"github.com/rafael/adforge/internal/design"
	"github.com/rafael/adforge/internal/finalize"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/observability"
	"github.com/rafael/adforge/internal/palette"
	"github.com/rafael/adforge/internal/plan"
	"github.com/rafael/adforge/internal/types"
)

// RunOptions configures one pipeline run.
type RunOptions struct {
	// ProjectID names the project; empty generates a fresh id. Required when
	// resuming.
	ProjectID string
	Brief     *types.BrandBrief

	Text   llm.Client
	Images llm.ImageClient
	Store  *assets.Store
	// DB persists run/stage/creative records when set. A nil DB is not an
	// error; runs work from the manifest alone.
	DB *db.DB

	Tier      plan.Tier
	Schemes   []palette.Scheme
	Formats   []plan.Format
	Languages []plan.Language
	// BaseLanguage is the deck used when a variant's language has none.
	// Defaults to the first configured language.
	BaseLanguage string

	Workers int
	Pacing  time.Duration

	// ReferenceImage optionally steers the concept toward a local image's
	// style.
	ReferenceImage string

	// Resume reloads the project manifest and re-enters at the first
	// incomplete stage, keeping completed artifacts.
	Resume bool

	Progress func(ProgressEvent)
	Printer  *observability.Printer
}

// RunResult reports the outcome of a run. On stage failure the result is still
// returned alongside the error so callers can show partial progress.
type RunResult struct {
	ProjectID    string
	Project      *Project
	Manifest     *assets.Manifest
	ManifestPath string
	Variants     int
	Warnings     []string
	Duration     time.Duration
}

// Run drives the pipeline from the first incomplete stage to the end. Concept,
// copy, and branding failures abort the run; design and finalization tolerate
// per-variant failures as long as something was produced. Every completed
// stage updates the manifest, so an aborted run resumes past its finished
// work.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("an artifact store is required")
	}
	if opts.Text == nil {
		return nil, fmt.Errorf("a text client is required")
	}
	if opts.Images == nil {
		return nil, fmt.Errorf("an image client is required")
	}

	r := &runner{opts: opts, startedAt: time.Now()}
	if err := r.setup(ctx); err != nil {
		return nil, err
	}

	for _, stage := range Order() {
		if r.project.StatusOf(stage) == StatusCompleted {
			r.emit(ProgressEvent{Stage: stage, Status: StatusSkipped, Message: "already completed"})
			continue
		}
		if err := r.runStage(ctx, stage); err != nil {
			r.finish(ctx, db.RunStatusFailed)
			return r.result(), err
		}
	}

	r.finish(ctx, db.RunStatusCompleted)
	return r.result(), nil
}

// RunStage executes exactly one stage of an existing project. The project
// loads from its manifest, so a brief or earlier stage command must have
// created it. Re-running a completed stage invalidates it and everything
// downstream first; their inputs are about to change.
func RunStage(ctx context.Context, stage Stage, opts RunOptions) (*RunResult, error) {
	if position(stage) < 0 {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("an artifact store is required")
	}
	if opts.Text == nil {
		return nil, fmt.Errorf("a text client is required")
	}
	if opts.Images == nil {
		return nil, fmt.Errorf("an image client is required")
	}
	opts.Resume = true

	r := &runner{opts: opts, startedAt: time.Now()}
	if err := r.setup(ctx); err != nil {
		return nil, err
	}

	if r.project.StatusOf(stage) == StatusCompleted {
		if err := r.project.Invalidate(stage); err != nil {
			return nil, err
		}
	}

	// Surface order violations before any run bookkeeping; nothing ran yet.
	if err := r.project.CanRun(stage); err != nil {
		return r.result(), err
	}

	if err := r.runStage(ctx, stage); err != nil {
		r.finish(ctx, db.RunStatusFailed)
		return r.result(), err
	}

	if r.project.Done() {
		r.finish(ctx, db.RunStatusCompleted)
	} else {
		r.syncManifest()
	}
	return r.result(), nil
}

type runner struct {
	opts RunOptions

	project      *Project
	manifest     *assets.Manifest
	manifestPath string

	runID uuid.UUID

	schemes      []palette.Scheme
	formats      []plan.Format
	languages    []plan.Language
	baseLanguage string
	variants     []plan.Variant

	warnings  []string
	startedAt time.Time
}

func (r *runner) setup(ctx context.Context) error {
	r.schemes = r.opts.Schemes
	if len(r.schemes) == 0 {
		r.schemes = palette.DefaultSchemes()
	}
	r.formats = r.opts.Formats
	if len(r.formats) == 0 {
		r.formats = plan.DefaultFormats()
	}
	configured := r.opts.Languages
	if len(configured) == 0 {
		configured = plan.DefaultLanguages()
	}

	if r.opts.Resume {
		if r.opts.ProjectID == "" {
			return fmt.Errorf("resuming requires a project id")
		}
		m, err := r.opts.Store.LoadManifest(r.opts.ProjectID)
		if err != nil {
			return fmt.Errorf("cannot resume %s: %w", r.opts.ProjectID, err)
		}
		brief := m.Brief
		if r.opts.Brief != nil {
			brief = r.opts.Brief
		}
		if brief == nil {
			return fmt.Errorf("cannot resume %s: manifest has no brief", r.opts.ProjectID)
		}
		r.project = NewProject(m.ProjectID, brief)
		r.project.restore(m.Epoch, m.Stages, Artifacts{
			Concept:        m.Concept,
			Copy:           m.Copy,
			Designs:        m.Designs,
			DesignFailures: m.DesignFailures,
			Brand:          m.Brand,
			Finals:         m.Finals,
			FinalFailures:  m.FinalFailures,
		})
		r.manifest = m
		r.warnings = m.Warnings
	} else {
		if r.opts.Brief == nil {
			return fmt.Errorf("a brand brief is required")
		}
		r.project = NewProject(r.opts.ProjectID, r.opts.Brief)
		r.manifest = &assets.Manifest{
			ProjectID: r.project.ID,
			BrandName: r.opts.Brief.BrandName,
		}
	}

	variants, warnings := plan.Expand(r.opts.Tier, r.schemes, r.formats, configured)
	if len(variants) == 0 {
		return fmt.Errorf("variant expansion produced no work: check tier, schemes, formats, and languages")
	}
	r.addWarnings(warnings...)
	r.variants = variants
	r.languages = uniqueLanguages(variants)

	r.baseLanguage = r.opts.BaseLanguage
	if r.baseLanguage == "" {
		r.baseLanguage = r.languages[0].Code
	}

	r.openRun(ctx)
	r.syncManifest()

	if r.opts.Printer != nil {
		r.opts.Printer.PrintBrief(r.project.Brief)
		r.opts.Printer.PrintVariantMatrix(r.variants)
	}
	return nil
}

func (r *runner) runStage(ctx context.Context, stage Stage) error {
	epoch, err := r.project.Begin(stage)
	if err != nil {
		return err
	}

	r.emit(ProgressEvent{Stage: stage, Status: StatusRunning})
	r.dbStartStage(ctx, stage)

	apply, record, err := r.execute(ctx, stage)
	if err != nil {
		r.dbFailStage(ctx, stage, err)
		stageErr := r.project.Fail(stage, err)
		r.syncManifest()
		r.emit(ProgressEvent{Stage: stage, Status: StatusFailed, Message: err.Error()})
		return stageErr
	}

	if err := r.project.Complete(stage, epoch, apply); err != nil {
		r.dbFailStage(ctx, stage, err)
		stageErr := r.project.Fail(stage, err)
		r.syncManifest()
		r.emit(ProgressEvent{Stage: stage, Status: StatusFailed, Message: err.Error()})
		return stageErr
	}

	r.dbCompleteStage(ctx, stage, record)
	r.saveCreatives(ctx, stage)
	r.syncManifest()
	r.emit(ProgressEvent{Stage: stage, Status: StatusCompleted})
	return nil
}

// execute runs one stage's executor and returns the artifact application
// function plus a compact record for the stage ledger.
func (r *runner) execute(ctx context.Context, stage Stage) (func(*Artifacts), any, error) {
	a := r.project.Artifacts()

	switch stage {
	case StageConcept:
		notes := ""
		if r.opts.ReferenceImage != "" {
			analyzed, err := concept.AnalyzeReference(ctx, r.opts.Text, r.opts.ReferenceImage)
			if err != nil {
				r.addWarnings(fmt.Sprintf("reference image skipped: %v", err))
			} else {
				notes = analyzed
			}
		}
		c, warnings, err := concept.Generate(ctx, r.opts.Text, r.project.Brief, notes)
		if err != nil {
			return nil, nil, err
		}
		r.addWarnings(warnings...)
		if r.opts.Printer != nil {
			r.opts.Printer.PrintConcept(c)
		}
		return func(art *Artifacts) { art.Concept = c }, c, nil

	case StageCopy:
		set, warnings, err := copywrite.Write(ctx, r.opts.Text, r.project.Brief, a.Concept, r.languages)
		if err != nil {
			return nil, nil, err
		}
		r.addWarnings(warnings...)
		if r.opts.Printer != nil {
			r.opts.Printer.PrintCopySet(set)
		}
		return func(art *Artifacts) { art.Copy = set }, set, nil

	case StageDesign:
		designs, failures, err := design.Render(ctx, r.opts.Images, r.opts.Store, design.Inputs{
			ProjectID:    r.project.ID,
			Concept:      a.Concept,
			Copy:         a.Copy,
			Variants:     r.variants,
			BaseLanguage: r.baseLanguage,
		}, &design.Options{Workers: r.opts.Workers, Pacing: r.opts.Pacing})
		if err != nil {
			return nil, nil, err
		}
		for _, f := range failures {
			r.emit(ProgressEvent{Stage: stage, Status: StatusFailed, Message: f.Reason, Key: f.Ref.Key()})
		}
		record := map[string]int{"designs": len(designs), "failures": len(failures)}
		return func(art *Artifacts) {
			art.Designs = designs
			art.DesignFailures = failures
		}, record, nil

	case StageBranding:
		brand, err := branding.GenerateLogo(ctx, r.opts.Images, r.opts.Store, r.project.Brief, r.brandScheme(), r.project.ID)
		if err != nil {
			return nil, nil, err
		}
		return func(art *Artifacts) { art.Brand = brand }, brand, nil

	case StageFinalize:
		finals, failures, err := finalize.Run(ctx, r.opts.Images, r.opts.Store, finalize.Inputs{
			ProjectID:    r.project.ID,
			Brief:        r.project.Brief,
			Designs:      a.Designs,
			Copy:         a.Copy,
			Brand:        a.Brand,
			Formats:      r.formats,
			BaseLanguage: r.baseLanguage,
		}, &finalize.Options{Workers: r.opts.Workers, Pacing: r.opts.Pacing})
		if err != nil {
			return nil, nil, err
		}
		for _, f := range failures {
			r.emit(ProgressEvent{Stage: stage, Status: StatusFailed, Message: f.Reason, Key: f.Ref.Key()})
		}
		record := map[string]int{"finals": len(finals), "failures": len(failures)}
		return func(art *Artifacts) {
			art.Finals = finals
			art.FinalFailures = failures
		}, record, nil
	}

	return nil, nil, fmt.Errorf("unknown stage %q", stage)
}

// brandScheme picks the scheme that steers the logo: the first of the run.
func (r *runner) brandScheme() palette.Scheme {
	if len(r.variants) > 0 {
		return r.variants[0].Scheme
	}
	return r.schemes[0]
}

func (r *runner) finish(ctx context.Context, status string) {
	r.syncManifest()
	r.dbCompleteRun(ctx, status)
	if r.opts.Printer != nil {
		r.opts.Printer.PrintRunSummary(r.manifest, time.Since(r.startedAt))
		r.opts.Printer.PrintWarnings(r.warnings)
	}
}

func (r *runner) result() *RunResult {
	return &RunResult{
		ProjectID:    r.project.ID,
		Project:      r.project,
		Manifest:     r.manifest,
		ManifestPath: r.manifestPath,
		Variants:     len(r.variants),
		Warnings:     r.warnings,
		Duration:     time.Since(r.startedAt),
	}
}

// syncManifest snapshots the project into the manifest and rewrites it. A
// write failure degrades to a warning; the artifacts themselves are already on
// disk.
func (r *runner) syncManifest() {
	a := r.project.Artifacts()
	r.manifest.Epoch = r.project.Epoch()
	r.manifest.Stages = r.project.Statuses()
	r.manifest.Brief = r.project.Brief
	r.manifest.Concept = a.Concept
	r.manifest.Copy = a.Copy
	r.manifest.Designs = a.Designs
	r.manifest.DesignFailures = a.DesignFailures
	r.manifest.Brand = a.Brand
	r.manifest.Finals = a.Finals
	r.manifest.FinalFailures = a.FinalFailures
	r.manifest.Warnings = r.warnings

	path, err := r.opts.Store.WriteManifest(r.manifest)
	if err != nil {
		r.addWarnings(fmt.Sprintf("manifest write failed: %v", err))
		return
	}
	r.manifestPath = path
}

func (r *runner) emit(event ProgressEvent) {
	if r.opts.Progress != nil {
		r.opts.Progress(event)
	}
}

func (r *runner) addWarnings(warnings ...string) {
	r.warnings = append(r.warnings, warnings...)
}

// Database hooks. All of them degrade to warnings: persistence is an observer
// of the run, never a gate.

func (r *runner) openRun(ctx context.Context) {
	if r.opts.DB == nil {
		return
	}
	existing, err := r.opts.DB.GetRunByProject(ctx, r.project.ID)
	if err != nil {
		r.addWarnings(fmt.Sprintf("database lookup failed: %v", err))
		return
	}
	if existing != nil {
		r.runID = existing.ID
		return
	}
	id, err := r.opts.DB.CreateRun(ctx, r.project.ID, r.project.Brief.BrandName, r.project.Brief.Objective, r.opts.Tier.ID)
	if err != nil {
		r.addWarnings(fmt.Sprintf("database run record failed: %v", err))
		return
	}
	r.runID = id
}

func (r *runner) dbStartStage(ctx context.Context, stage Stage) {
	if r.opts.DB == nil || r.runID == uuid.Nil {
		return
	}
	if err := r.opts.DB.StartStage(ctx, r.runID, string(stage)); err != nil {
		r.addWarnings(fmt.Sprintf("database stage record failed: %v", err))
	}
}

func (r *runner) dbCompleteStage(ctx context.Context, stage Stage, artifact any) {
	if r.opts.DB == nil || r.runID == uuid.Nil {
		return
	}
	if err := r.opts.DB.CompleteStage(ctx, r.runID, string(stage), artifact); err != nil {
		r.addWarnings(fmt.Sprintf("database stage record failed: %v", err))
	}
}

func (r *runner) dbFailStage(ctx context.Context, stage Stage, cause error) {
	if r.opts.DB == nil || r.runID == uuid.Nil {
		return
	}
	if err := r.opts.DB.FailStage(ctx, r.runID, string(stage), cause.Error()); err != nil {
		r.addWarnings(fmt.Sprintf("database stage record failed: %v", err))
	}
}

func (r *runner) dbCompleteRun(ctx context.Context, status string) {
	if r.opts.DB == nil || r.runID == uuid.Nil {
		return
	}
	if err := r.opts.DB.CompleteRun(ctx, r.runID, status); err != nil {
		r.addWarnings(fmt.Sprintf("database run record failed: %v", err))
	}
}

func (r *runner) saveCreatives(ctx context.Context, stage Stage) {
	if r.opts.DB == nil || r.runID == uuid.Nil {
		return
	}
	a := r.project.Artifacts()
	switch stage {
	case StageDesign:
		for _, d := range a.Designs {
			r.saveCreative(ctx, &db.Creative{
				RunID:        r.runID,
				Stage:        db.CreativeStageDesign,
				Scheme:       d.Ref.Scheme,
				Format:       d.Ref.Format,
				Language:     d.Ref.Language,
				VariantIndex: d.Ref.Index,
				Filename:     d.Filename,
				Path:         d.Path,
				Width:        d.Width,
				Height:       d.Height,
				Prompt:       d.Prompt,
			})
		}
	case StageFinalize:
		for _, f := range a.Finals {
			r.saveCreative(ctx, &db.Creative{
				RunID:        r.runID,
				Stage:        db.CreativeStageFinal,
				Scheme:       f.Ref.Scheme,
				Format:       f.Ref.Format,
				Language:     f.Ref.Language,
				VariantIndex: f.Ref.Index,
				Filename:     f.Filename,
				Path:         f.Path,
				Width:        f.Width,
				Height:       f.Height,
			})
		}
	}
}

func (r *runner) saveCreative(ctx context.Context, c *db.Creative) {
	if _, err := r.opts.DB.SaveCreative(ctx, c); err != nil {
		r.addWarnings(fmt.Sprintf("database creative record failed: %v", err))
	}
}

// uniqueLanguages returns the distinct languages of the work list in first-use
// order.
func uniqueLanguages(variants []plan.Variant) []plan.Language {
	seen := make(map[string]bool, 4)
	var out []plan.Language
	for _, v := range variants {
		if !seen[v.Language.Code] {
			seen[v.Language.Code] = true
			out = append(out, v.Language)
		}
	}
	return out
}
