package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rafael/adforge/internal/config"
	"github.com/rafael/adforge/internal/server"
)

var (
	servePort       int
	serveOutputDir  string
	serveDBURL      string
	serveModel      string
	serveImageModel string
	serveWorkers    int
	servePacing     float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for launching and observing creative pipeline runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveOutputDir, "out", "o", config.DefaultOutputDir, "Directory for generated artifacts")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Text model override")
	serveCmd.Flags().StringVar(&serveImageModel, "image-model", "", "Image model override")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Concurrent image generations per run")
	serveCmd.Flags().Float64Var(&servePacing, "pacing", 0, "Minimum seconds between image requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get API key from environment
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	dbURL := serveDBURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	cfg := server.Config{
		Port:        servePort,
		OutputDir:   serveOutputDir,
		DatabaseURL: dbURL,
		APIKey:      apiKey,
		Model:       serveModel,
		ImageModel:  serveImageModel,
		Workers:     serveWorkers,
		Pacing:      time.Duration(servePacing * float64(time.Second)),
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
