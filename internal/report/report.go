// Package report persists analysis reports as JSON documents with a common
// metadata envelope.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hdsemg-data/motorunit.report/internal/fsutil"
	"github.com/hdsemg-data/motorunit.report/internal/monitoring"
	"github.com/hdsemg-data/motorunit.report/internal/timeutil"
)

// Report types written by the pipeline.
const (
	TypePreFilter      = "pre_filter"
	TypePostValidation = "post_validation"
)

// Envelope field names added to every persisted report.
const (
	FieldReportType = "report_type"
	FieldTimestamp  = "timestamp"
	FieldThreshold  = "covisi_threshold"
)

// Store reads and writes report files. The filesystem and clock are
// injectable for tests.
type Store struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock
}

// NewStore creates a Store over the given filesystem and clock.
func NewStore(fs fsutil.FileSystem, clock timeutil.Clock) *Store {
	return &Store{fs: fs, clock: clock}
}

// DefaultStore returns a Store over the OS filesystem and wall clock.
func DefaultStore() *Store {
	return NewStore(fsutil.OSFileSystem{}, timeutil.RealClock{})
}

// Save serializes the report as indented JSON under an envelope carrying the
// report type, an ISO-8601 timestamp and the threshold used. The report must
// serialize to a JSON object; its own fields are preserved alongside the
// envelope fields. The file is written to a temporary sibling and renamed
// into place so a crash cannot leave partial JSON at the destination.
func (s *Store) Save(rep any, path, reportType string, threshold float64) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode %s report: %w", reportType, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%s report must serialize to a JSON object: %w", reportType, err)
	}

	doc[FieldReportType] = reportType
	doc[FieldTimestamp] = s.clock.Now().Format(time.RFC3339)
	doc[FieldThreshold] = threshold

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s report: %w", reportType, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		// Best effort: don't leave the temp file behind.
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write report %s: %w", path, err)
	}

	monitoring.Logf("saved CoVISI %s report to %s", reportType, path)
	return nil
}

// Load parses a report file into a generic document. The shape is not
// validated; callers must handle missing keys.
func (s *Store) Load(path string) (map[string]any, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return doc, nil
}
