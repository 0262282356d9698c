package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/config"
	"github.com/rafael/adforge/internal/db"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/pipeline"
)

// clients bundles the runtime dependencies a command needs: the artifact
// store, the model clients, and the optional database.
type clients struct {
	store  *assets.Store
	text   llm.Client
	images llm.ImageClient
	db     *db.DB
}

// openClients assembles the store and model clients from the merged config.
// The database is optional; a failed connection degrades to a warning.
func openClients(ctx context.Context, cfg config.Config) (*clients, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	store, err := assets.NewStore(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model).WithModel(llm.TierAdvanced, cfg.Model)
	}
	if cfg.ImageModel != "" {
		llmConfig = llmConfig.WithImageModel(cfg.ImageModel)
	}

	text, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create text client: %w", err)
	}
	images, err := llm.NewImageClient(ctx, llmConfig, apiKey)
	if err != nil {
		text.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}

	c := &clients{store: store, text: text, images: images}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL != "" {
		database, dbErr := db.Connect(ctx, dbURL)
		if dbErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to connect to database: %v\n", dbErr)
			fmt.Fprintf(os.Stderr, "Continuing without database persistence...\n")
		} else {
			c.db = database
		}
	}

	return c, nil
}

func (c *clients) Close() {
	if c.db != nil {
		c.db.Close()
	}
	if c.text != nil {
		c.text.Close() //nolint:errcheck
	}
	if c.images != nil {
		c.images.Close() //nolint:errcheck
	}
}

// progressPrinter returns a progress callback that prints step lines to
// stdout and failures to stderr.
func progressPrinter() func(pipeline.ProgressEvent) {
	order := pipeline.Order()
	position := make(map[pipeline.Stage]int, len(order))
	for i, s := range order {
		position[s] = i + 1
	}
	return func(e pipeline.ProgressEvent) {
		switch e.Status {
		case pipeline.StatusRunning:
			fmt.Fprintf(os.Stdout, "Step %d/%d: %s...\n", position[e.Stage], len(order), e.Stage)
		case pipeline.StatusCompleted:
			fmt.Fprintf(os.Stdout, "Step %d/%d: %s done\n", position[e.Stage], len(order), e.Stage)
		case pipeline.StatusSkipped:
			fmt.Fprintf(os.Stdout, "Step %d/%d: %s skipped (%s)\n", position[e.Stage], len(order), e.Stage, e.Message)
		case pipeline.StatusFailed:
			if e.Key != "" {
				fmt.Fprintf(os.Stderr, "  variant %s failed: %s\n", e.Key, e.Message)
			} else {
				fmt.Fprintf(os.Stderr, "Step %d/%d: %s failed: %s\n", position[e.Stage], len(order), e.Stage, e.Message)
			}
		}
	}
}
