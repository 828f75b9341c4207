package analysisdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is one recorded analysis of one source file.
type AnalysisRun struct {
	ID           int       `json:"id"`
	RunID        string    `json:"run_id"`      // UUID assigned on insert when empty
	SourceFile   string    `json:"source_file"` // container or report the run analyzed
	ReportType   string    `json:"report_type"` // pre_filter or post_validation
	Threshold    float64   `json:"threshold"`   // CoVISI threshold in percent
	MUCount      int       `json:"mu_count"`
	KeptCount    int       `json:"kept_count"`
	RemovedCount int       `json:"removed_count"`
	ReportPath   *string   `json:"report_path"` // where the JSON report went, if saved
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAnalysisRun inserts a run record, assigning a run ID when the caller
// did not provide one.
func (db *DB) CreateAnalysisRun(run *AnalysisRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	query := `
		INSERT INTO analysis_runs (
			run_id, source_file, report_type, threshold,
			mu_count, kept_count, removed_count, report_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.DB.Exec(
		query,
		run.RunID,
		run.SourceFile,
		run.ReportType,
		run.Threshold,
		run.MUCount,
		run.KeptCount,
		run.RemovedCount,
		run.ReportPath,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	run.ID = int(id)
	return nil
}

// GetAnalysisRun retrieves a run by its UUID.
func (db *DB) GetAnalysisRun(runID string) (*AnalysisRun, error) {
	query := `
		SELECT id, run_id, source_file, report_type, threshold,
		       mu_count, kept_count, removed_count, report_path, created_at
		FROM analysis_runs
		WHERE run_id = ?
	`

	var run AnalysisRun
	err := db.DB.QueryRow(query, runID).Scan(
		&run.ID,
		&run.RunID,
		&run.SourceFile,
		&run.ReportType,
		&run.Threshold,
		&run.MUCount,
		&run.KeptCount,
		&run.RemovedCount,
		&run.ReportPath,
		&run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return &run, nil
}

// RecentRuns retrieves the most recent N runs across all source files.
func (db *DB) RecentRuns(limit int) ([]AnalysisRun, error) {
	query := `
		SELECT id, run_id, source_file, report_type, threshold,
		       mu_count, kept_count, removed_count, report_path, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return db.queryRuns(query, limit)
}

// RunsForFile retrieves the most recent N runs for one source file.
func (db *DB) RunsForFile(sourceFile string, limit int) ([]AnalysisRun, error) {
	query := `
		SELECT id, run_id, source_file, report_type, threshold,
		       mu_count, kept_count, removed_count, report_path, created_at
		FROM analysis_runs
		WHERE source_file = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return db.queryRuns(query, sourceFile, limit)
}

func (db *DB) queryRuns(query string, args ...any) ([]AnalysisRun, error) {
	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.SourceFile,
			&run.ReportType,
			&run.Threshold,
			&run.MUCount,
			&run.KeptCount,
			&run.RemovedCount,
			&run.ReportPath,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
