package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rafael/adforge/internal/brief"
	"github.com/rafael/adforge/internal/config"
	"github.com/rafael/adforge/internal/observability"
	"github.com/rafael/adforge/internal/pipeline"
	"github.com/rafael/adforge/internal/plan"
	"github.com/rafael/adforge/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full creative pipeline end-to-end",
	Long: `Orchestrates the entire creative generation process: concept -> copy -> design -> branding -> finalize.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath   string
	runBriefPath    string
	runBriefURL     string
	runReference    string
	runTier         string
	runSchemes      []string
	runFormats      []string
	runLanguages    []string
	runBaseLanguage string
	runOutputDir    string
	runProjectID    string
	runResume       bool
	runWorkers      int
	runPacing       float64
	runAPIKey       string
	runModel        string
	runImageModel   string
	runUseBrowser   bool
	runVerbose      bool
	runDatabaseURL  string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to adforge.config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runBriefPath, "brief", "b", "", "Path to brand brief text file (mutually exclusive with --brief-url)")
	runCommand.Flags().StringVar(&runBriefURL, "brief-url", "", "URL of a brand page to ingest as the brief (mutually exclusive with --brief)")
	runCommand.Flags().StringVar(&runReference, "reference", "", "Path to a reference image that steers the visual concept")
	runCommand.Flags().StringVarP(&runTier, "tier", "t", "", "Quantity tier: minimal, standard, or full")
	runCommand.Flags().StringSliceVar(&runSchemes, "schemes", nil, "Color scheme ids to render (overrides the tier's schemes)")
	runCommand.Flags().StringSliceVar(&runFormats, "formats", nil, "Format ids to render (overrides the tier's formats)")
	runCommand.Flags().StringSliceVar(&runLanguages, "languages", nil, "Language codes to render (overrides the tier's languages)")
	runCommand.Flags().StringVar(&runBaseLanguage, "base-language", "", "Deck used for variants whose language has none (defaults to the first language)")
	runCommand.Flags().StringVarP(&runOutputDir, "out", "o", "", "Directory for generated artifacts")
	runCommand.Flags().StringVarP(&runProjectID, "project", "p", "", "Project id (generated if not provided)")
	runCommand.Flags().BoolVar(&runResume, "resume", false, "Resume an existing project from its manifest (requires --project)")
	runCommand.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent design generations")
	runCommand.Flags().Float64Var(&runPacing, "pacing", 0, "Minimum seconds between image requests")
	runCommand.Flags().StringVar(&runModel, "model", "", "Text model override")
	runCommand.Flags().StringVar(&runImageModel, "image-model", "", "Image model override")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for JavaScript-rendered brand pages (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := mergedRunConfig(cmd)
	if err != nil {
		return err
	}

	// Validate required fields
	if runResume && runProjectID == "" {
		return fmt.Errorf("--resume requires --project")
	}
	if !runResume {
		if cfg.Brief == "" && cfg.BriefURL == "" {
			return fmt.Errorf("either --brief or --brief-url must be provided (via flag or config)")
		}
		if cfg.Brief != "" && cfg.BriefURL != "" {
			return fmt.Errorf("--brief and --brief-url are mutually exclusive; provide only one")
		}
	}

	tier, err := plan.ComposeTier(cfg.Tier, cfg.Schemes, cfg.Formats, cfg.Languages)
	if err != nil {
		return err
	}

	c, err := openClients(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	opts := pipeline.RunOptions{
		ProjectID:      runProjectID,
		Text:           c.text,
		Images:         c.images,
		Store:          c.store,
		DB:             c.db,
		Tier:           tier,
		BaseLanguage:   runBaseLanguage,
		Workers:        cfg.Workers,
		Pacing:         time.Duration(cfg.PacingSeconds * float64(time.Second)),
		ReferenceImage: cfg.ReferenceImage,
		Resume:         runResume,
		Progress:       progressPrinter(),
	}
	if runVerbose || cfg.Verbose {
		opts.Printer = observability.NewPrinter(os.Stdout)
	}

	if !runResume {
		b, loadErr := loadBrief(ctx, c, cfg)
		if loadErr != nil {
			return loadErr
		}
		opts.Brief = b
	}

	result, err := pipeline.Run(ctx, opts)
	if result != nil {
		fmt.Fprintf(os.Stdout, "Project: %s\n", result.ProjectID)
		if result.ManifestPath != "" {
			fmt.Fprintf(os.Stdout, "Manifest: %s\n", result.ManifestPath)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Generated %d final creatives across %d variants in %s\n",
		len(result.Manifest.Finals), result.Variants, result.Duration.Round(time.Second))
	return nil
}

// mergedRunConfig loads the optional config file and applies CLI overrides
// and defaults. Only flags the user actually set override file values.
func mergedRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if runVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	if cmd.Flags().Changed("brief") {
		cfg.Brief = runBriefPath
	}
	if cmd.Flags().Changed("brief-url") {
		cfg.BriefURL = runBriefURL
	}
	if cmd.Flags().Changed("reference") {
		cfg.ReferenceImage = runReference
	}
	if cmd.Flags().Changed("tier") {
		cfg.Tier = runTier
	}
	if cmd.Flags().Changed("schemes") {
		cfg.Schemes = runSchemes
	}
	if cmd.Flags().Changed("formats") {
		cfg.Formats = runFormats
	}
	if cmd.Flags().Changed("languages") {
		cfg.Languages = runLanguages
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}
	if cmd.Flags().Changed("pacing") {
		cfg.PacingSeconds = runPacing
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("image-model") {
		cfg.ImageModel = runImageModel
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Tier:      config.DefaultTier,
		OutputDir: config.DefaultOutputDir,
		Workers:   config.DefaultWorkers,
	})
	return cfg, nil
}

// loadBrief resolves the briefing text from a file or URL and extracts the
// structured brief.
func loadBrief(ctx context.Context, c *clients, cfg config.Config) (*types.BrandBrief, error) {
	var content, sourceURL string
	var err error

	if cfg.Brief != "" {
		content, err = brief.FromFile(cfg.Brief)
	} else {
		sourceURL = cfg.BriefURL
		content, err = brief.FromURL(ctx, cfg.BriefURL, &brief.Options{
			UseBrowser: cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
	}
	if err != nil {
		return nil, err
	}

	b, warnings, err := brief.Extract(ctx, c.text, content, sourceURL)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return b, nil
}
