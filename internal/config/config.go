// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Brief          string `json:"brief,omitempty"`           // Path to brand brief text file
	BriefURL       string `json:"brief_url,omitempty"`       // URL to fetch the brand brief from
	ReferenceImage string `json:"reference_image,omitempty"` // Path to a visual reference image

	// Generation axes
	Tier      string   `json:"tier,omitempty"`      // Quantity tier: minimal, standard, full
	Schemes   []string `json:"schemes,omitempty"`   // Color scheme ids to render
	Formats   []string `json:"formats,omitempty"`   // Format ids to render
	Languages []string `json:"languages,omitempty"` // Language codes to render

	// Output
	OutputDir string `json:"output_dir,omitempty"` // Directory for generated artifacts

	// Behavior
	APIKey        string  `json:"api_key,omitempty"`        // Gemini API key
	Model         string  `json:"model,omitempty"`          // Text model override
	ImageModel    string  `json:"image_model,omitempty"`    // Image model override
	Workers       int     `json:"workers,omitempty"`        // Concurrent design generations
	PacingSeconds float64 `json:"pacing_seconds,omitempty"` // Minimum gap between image requests
	UseBrowser    bool    `json:"use_browser,omitempty"`    // Use headless browser for SPA sites
	Verbose       bool    `json:"verbose,omitempty"`        // Print detailed debug information
	DatabaseURL   string  `json:"database_url,omitempty"`   // PostgreSQL connection URL
}

// Default values applied when neither the config file nor flags set a field.
const (
	DefaultOutputDir     = "output"
	DefaultTier          = "standard"
	DefaultWorkers       = 3
	DefaultPacingSeconds = 2.0
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Brief != "" && c.BriefURL != "" {
		return fmt.Errorf("config error: 'brief' and 'brief_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.PacingSeconds < 0 {
		return fmt.Errorf("config error: 'pacing_seconds' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Brief != "" {
		if _, err := os.Stat(c.Brief); os.IsNotExist(err) {
			return fmt.Errorf("config error: brief file not found: %s", c.Brief)
		}
	}

	if c.ReferenceImage != "" {
		if _, err := os.Stat(c.ReferenceImage); os.IsNotExist(err) {
			return fmt.Errorf("config error: reference image not found: %s", c.ReferenceImage)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Brief == "" {
		result.Brief = defaults.Brief
	}
	if result.BriefURL == "" {
		result.BriefURL = defaults.BriefURL
	}
	if result.ReferenceImage == "" {
		result.ReferenceImage = defaults.ReferenceImage
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ImageModel == "" {
		result.ImageModel = defaults.ImageModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Slice fields: use default if unset
	if len(result.Schemes) == 0 {
		result.Schemes = defaults.Schemes
	}
	if len(result.Formats) == 0 {
		result.Formats = defaults.Formats
	}
	if len(result.Languages) == 0 {
		result.Languages = defaults.Languages
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Float fields
	if result.PacingSeconds == 0 {
		if defaults.PacingSeconds > 0 {
			result.PacingSeconds = defaults.PacingSeconds
		} else {
			result.PacingSeconds = DefaultPacingSeconds
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
