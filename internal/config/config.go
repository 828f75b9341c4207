// Package config loads the analysis configuration from JSON. Fields are
// pointers so partial configs are safe: anything omitted falls back to the
// getter defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AnalysisConfig holds the tunable parameters of the CoVISI pipeline. The
// schema is flat JSON so the same file works for CLI flags defaults and for
// embedding callers.
type AnalysisConfig struct {
	// CoVISI filtering params
	CoVISIThreshold *float64 `json:"covisi_threshold,omitempty"`
	RecDerecFirings *int     `json:"n_firings_rec_derec,omitempty"`

	// Steady-state window in seconds (both must be set to enable)
	SteadyStart *float64 `json:"steady_start_seconds,omitempty"`
	SteadyEnd   *float64 `json:"steady_end_seconds,omitempty"`

	// Output params
	DatabasePath *string `json:"database_path,omitempty"`
	OutputDir    *string `json:"output_dir,omitempty"`
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Omitted fields
// retain their defaults through the Get* methods.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalysisConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *AnalysisConfig) Validate() error {
	if c.CoVISIThreshold != nil && *c.CoVISIThreshold <= 0 {
		return fmt.Errorf("covisi_threshold must be positive, got %g", *c.CoVISIThreshold)
	}
	if c.RecDerecFirings != nil && *c.RecDerecFirings < 2 {
		return fmt.Errorf("n_firings_rec_derec must be at least 2, got %d", *c.RecDerecFirings)
	}
	if c.SteadyStart != nil && c.SteadyEnd != nil && *c.SteadyStart >= *c.SteadyEnd {
		return fmt.Errorf("steady window invalid: start %g must be before end %g", *c.SteadyStart, *c.SteadyEnd)
	}
	if (c.SteadyStart == nil) != (c.SteadyEnd == nil) {
		return fmt.Errorf("steady window requires both steady_start_seconds and steady_end_seconds")
	}
	return nil
}

// GetCoVISIThreshold returns the covisi_threshold value or the literature
// default of 30 percent.
func (c *AnalysisConfig) GetCoVISIThreshold() float64 {
	if c.CoVISIThreshold == nil {
		return 30.0
	}
	return *c.CoVISIThreshold
}

// GetRecDerecFirings returns the n_firings_rec_derec value or the default.
func (c *AnalysisConfig) GetRecDerecFirings() int {
	if c.RecDerecFirings == nil {
		return 4
	}
	return *c.RecDerecFirings
}

// SteadyWindow returns the configured steady-state window and whether one is
// configured.
func (c *AnalysisConfig) SteadyWindow() (start, end float64, ok bool) {
	if c.SteadyStart == nil || c.SteadyEnd == nil {
		return 0, 0, false
	}
	return *c.SteadyStart, *c.SteadyEnd, true
}

// GetDatabasePath returns the database_path value or the default.
func (c *AnalysisConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return "covisi_runs.db"
	}
	return *c.DatabasePath
}

// GetOutputDir returns the output_dir value or the default.
func (c *AnalysisConfig) GetOutputDir() string {
	if c.OutputDir == nil {
		return "."
	}
	return *c.OutputDir
}
