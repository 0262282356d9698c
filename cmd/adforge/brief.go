package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/brief"
	"github.com/rafael/adforge/internal/config"
	"github.com/rafael/adforge/internal/observability"
	"github.com/rafael/adforge/internal/pipeline"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Ingest a brand brief and create a project",
	Long: `Reads a brand brief from a text file or a brand page URL, extracts the structured brief, and creates a project manifest.

The printed project id feeds the per-stage commands (concept, copy, design, brand, finalize) and --resume.`,
	RunE: runBriefCmd,
}

var (
	briefFile       string
	briefURL        string
	briefOutputDir  string
	briefProjectID  string
	briefAPIKey     string
	briefModel      string
	briefUseBrowser bool
	briefVerbose    bool
)

func init() {
	briefCmd.Flags().StringVarP(&briefFile, "file", "f", "", "Path to brand brief text file (mutually exclusive with --url)")
	briefCmd.Flags().StringVarP(&briefURL, "url", "u", "", "URL of a brand page to ingest (mutually exclusive with --file)")
	briefCmd.Flags().StringVarP(&briefOutputDir, "out", "o", config.DefaultOutputDir, "Directory for generated artifacts")
	briefCmd.Flags().StringVarP(&briefProjectID, "project", "p", "", "Project id (generated if not provided)")
	briefCmd.Flags().StringVar(&briefAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	briefCmd.Flags().StringVar(&briefModel, "model", "", "Text model override")
	briefCmd.Flags().BoolVar(&briefUseBrowser, "use-browser", false, "Use headless browser for JavaScript-rendered brand pages (requires Chrome)")
	briefCmd.Flags().BoolVarP(&briefVerbose, "verbose", "v", false, "Print the extracted brief")

	rootCmd.AddCommand(briefCmd)
}

func runBriefCmd(_ *cobra.Command, _ []string) error {
	if briefFile == "" && briefURL == "" {
		return fmt.Errorf("either --file or --url must be provided")
	}
	if briefFile != "" && briefURL != "" {
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	}

	ctx := context.Background()

	c, err := openClients(ctx, config.Config{
		OutputDir: briefOutputDir,
		APIKey:    briefAPIKey,
		Model:     briefModel,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	var content, sourceURL string
	if briefFile != "" {
		content, err = brief.FromFile(briefFile)
	} else {
		sourceURL = briefURL
		content, err = brief.FromURL(ctx, briefURL, &brief.Options{
			UseBrowser: briefUseBrowser,
			Verbose:    briefVerbose,
		})
	}
	if err != nil {
		return err
	}

	b, warnings, err := brief.Extract(ctx, c.text, content, sourceURL)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	project := pipeline.NewProject(briefProjectID, b)
	path, err := c.store.WriteManifest(&assets.Manifest{
		ProjectID: project.ID,
		BrandName: b.BrandName,
		Epoch:     project.Epoch(),
		Stages:    project.Statuses(),
		Brief:     b,
	})
	if err != nil {
		return err
	}

	if briefVerbose {
		observability.NewPrinter(os.Stdout).PrintBrief(b)
	}

	fmt.Fprintf(os.Stdout, "Project: %s\n", project.ID)
	fmt.Fprintf(os.Stdout, "Manifest: %s\n", path)
	fmt.Fprintf(os.Stdout, "Next: adforge concept --project %s\n", project.ID)
	return nil
}
