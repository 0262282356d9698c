package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rafael/adforge/internal/config"
	"github.com/rafael/adforge/internal/observability"
	"github.com/rafael/adforge/internal/pipeline"
	"github.com/rafael/adforge/internal/plan"
)

// stageFlags holds the flag values shared by the per-stage commands.
type stageFlags struct {
	project    string
	outputDir  string
	tier       string
	schemes    []string
	formats    []string
	languages  []string
	baseLang   string
	workers    int
	pacing     float64
	apiKey     string
	model      string
	imageModel string
	dbURL      string
	reference  string
	verbose    bool
}

// newStageCommand builds one per-stage command. They all load the project
// manifest, run a single stage, and write the manifest back. Re-running a
// completed stage regenerates it and resets everything downstream.
func newStageCommand(use string, stage pipeline.Stage, short string) *cobra.Command {
	flags := &stageFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStageCmd(stage, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.project, "project", "p", "", "Project id from a previous brief or run (required)")
	f.StringVarP(&flags.outputDir, "out", "o", config.DefaultOutputDir, "Directory for generated artifacts")
	f.StringVarP(&flags.tier, "tier", "t", "", "Quantity tier: minimal, standard, or full")
	f.StringSliceVar(&flags.schemes, "schemes", nil, "Color scheme ids to render (overrides the tier's schemes)")
	f.StringSliceVar(&flags.formats, "formats", nil, "Format ids to render (overrides the tier's formats)")
	f.StringSliceVar(&flags.languages, "languages", nil, "Language codes to render (overrides the tier's languages)")
	f.StringVar(&flags.baseLang, "base-language", "", "Deck used for variants whose language has none")
	f.StringVar(&flags.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	f.StringVar(&flags.model, "model", "", "Text model override")
	f.StringVar(&flags.imageModel, "image-model", "", "Image model override")
	f.StringVar(&flags.dbURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Print detailed debug information")

	switch stage {
	case pipeline.StageConcept:
		f.StringVar(&flags.reference, "reference", "", "Path to a reference image that steers the visual concept")
	case pipeline.StageDesign, pipeline.StageFinalize:
		f.IntVar(&flags.workers, "workers", 0, "Concurrent image generations")
		f.Float64Var(&flags.pacing, "pacing", 0, "Minimum seconds between image requests")
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(
		newStageCommand("concept", pipeline.StageConcept, "Develop the visual concept from the project brief"),
		newStageCommand("copy", pipeline.StageCopy, "Write copy decks for every configured language"),
		newStageCommand("design", pipeline.StageDesign, "Render base designs for every variant"),
		newStageCommand("brand", pipeline.StageBranding, "Generate the brand logo"),
		newStageCommand("finalize", pipeline.StageFinalize, "Composite final creatives with footer and logo"),
	)
}

func runStageCmd(stage pipeline.Stage, flags *stageFlags) error {
	if flags.project == "" {
		return fmt.Errorf("--project is required (create one with 'adforge brief')")
	}

	ctx := context.Background()

	tierID := flags.tier
	if tierID == "" {
		tierID = config.DefaultTier
	}
	tier, err := plan.ComposeTier(tierID, flags.schemes, flags.formats, flags.languages)
	if err != nil {
		return err
	}

	c, err := openClients(ctx, config.Config{
		OutputDir:   flags.outputDir,
		APIKey:      flags.apiKey,
		Model:       flags.model,
		ImageModel:  flags.imageModel,
		DatabaseURL: flags.dbURL,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	opts := pipeline.RunOptions{
		ProjectID:      flags.project,
		Text:           c.text,
		Images:         c.images,
		Store:          c.store,
		DB:             c.db,
		Tier:           tier,
		BaseLanguage:   flags.baseLang,
		Workers:        flags.workers,
		Pacing:         time.Duration(flags.pacing * float64(time.Second)),
		ReferenceImage: flags.reference,
		Progress:       progressPrinter(),
	}
	if flags.verbose {
		opts.Printer = observability.NewPrinter(os.Stdout)
	}

	result, err := pipeline.RunStage(ctx, stage, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", result.ManifestPath)
	return nil
}
