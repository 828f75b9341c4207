package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAnalysisConfig(t *testing.T) {
	path := writeConfig(t, "analysis.json", `{
		"covisi_threshold": 25.0,
		"n_firings_rec_derec": 6,
		"steady_start_seconds": 2.0,
		"steady_end_seconds": 8.0,
		"database_path": "/data/runs.db",
		"output_dir": "/data/reports"
	}`)

	cfg, err := LoadAnalysisConfig(path)
	if err != nil {
		t.Fatalf("LoadAnalysisConfig: %v", err)
	}

	if got := cfg.GetCoVISIThreshold(); got != 25.0 {
		t.Errorf("threshold = %v", got)
	}
	if got := cfg.GetRecDerecFirings(); got != 6 {
		t.Errorf("firings = %v", got)
	}
	start, end, ok := cfg.SteadyWindow()
	if !ok || start != 2.0 || end != 8.0 {
		t.Errorf("steady window = %v, %v, %v", start, end, ok)
	}
	if got := cfg.GetDatabasePath(); got != "/data/runs.db" {
		t.Errorf("database path = %q", got)
	}
	if got := cfg.GetOutputDir(); got != "/data/reports" {
		t.Errorf("output dir = %q", got)
	}
}

func TestLoadAnalysisConfigDefaults(t *testing.T) {
	path := writeConfig(t, "empty.json", `{}`)

	cfg, err := LoadAnalysisConfig(path)
	if err != nil {
		t.Fatalf("LoadAnalysisConfig: %v", err)
	}

	if got := cfg.GetCoVISIThreshold(); got != 30.0 {
		t.Errorf("default threshold = %v, want 30", got)
	}
	if got := cfg.GetRecDerecFirings(); got != 4 {
		t.Errorf("default firings = %v, want 4", got)
	}
	if _, _, ok := cfg.SteadyWindow(); ok {
		t.Error("steady window should be unset by default")
	}
	if got := cfg.GetDatabasePath(); got != "covisi_runs.db" {
		t.Errorf("default database path = %q", got)
	}
	if got := cfg.GetOutputDir(); got != "." {
		t.Errorf("default output dir = %q", got)
	}
}

func TestLoadAnalysisConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "analysis.yaml", `{}`},
		{"unparsable", "analysis.json", `{`},
		{"non-positive threshold", "analysis.json", `{"covisi_threshold": 0}`},
		{"too few firings", "analysis.json", `{"n_firings_rec_derec": 1}`},
		{"reversed steady window", "analysis.json", `{"steady_start_seconds": 8, "steady_end_seconds": 2}`},
		{"half-configured steady window", "analysis.json", `{"steady_start_seconds": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			if _, err := LoadAnalysisConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadAnalysisConfigMissingFile(t *testing.T) {
	if _, err := LoadAnalysisConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error")
	}
}
