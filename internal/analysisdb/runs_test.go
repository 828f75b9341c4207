package analysisdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateUp(MigrationsFS()))
	return db
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.MigrateUp(MigrationsFS()))

	version, dirty, err := db.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestCreateAndGetAnalysisRun(t *testing.T) {
	db := testDB(t)

	reportPath := "out/report.json"
	run := &AnalysisRun{
		SourceFile:   "session1.json.gz",
		ReportType:   "pre_filter",
		Threshold:    30,
		MUCount:      14,
		KeptCount:    11,
		RemovedCount: 3,
		ReportPath:   &reportPath,
	}
	require.NoError(t, db.CreateAnalysisRun(run))
	assert.NotZero(t, run.ID)
	assert.NotEmpty(t, run.RunID, "run ID should be assigned on insert")

	got, err := db.GetAnalysisRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.SourceFile, got.SourceFile)
	assert.Equal(t, run.ReportType, got.ReportType)
	assert.Equal(t, run.Threshold, got.Threshold)
	assert.Equal(t, run.MUCount, got.MUCount)
	assert.Equal(t, run.KeptCount, got.KeptCount)
	assert.Equal(t, run.RemovedCount, got.RemovedCount)
	require.NotNil(t, got.ReportPath)
	assert.Equal(t, reportPath, *got.ReportPath)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateAnalysisRunKeepsCallerRunID(t *testing.T) {
	db := testDB(t)

	run := &AnalysisRun{RunID: "fixed-id", SourceFile: "a.json", ReportType: "pre_filter"}
	require.NoError(t, db.CreateAnalysisRun(run))
	assert.Equal(t, "fixed-id", run.RunID)
}

func TestGetAnalysisRunNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetAnalysisRun("does-not-exist")
	assert.Error(t, err)
}

func TestRecentRunsAndRunsForFile(t *testing.T) {
	db := testDB(t)

	for _, source := range []string{"a.json", "b.json", "a.json"} {
		require.NoError(t, db.CreateAnalysisRun(&AnalysisRun{
			SourceFile: source,
			ReportType: "pre_filter",
			Threshold:  30,
		}))
	}

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Most recent first; same-timestamp inserts fall back to insert order.
	assert.Equal(t, "a.json", runs[0].SourceFile)
	assert.Equal(t, "b.json", runs[1].SourceFile)

	runs, err = db.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = db.RunsForFile("a.json", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "a.json", r.SourceFile)
	}

	runs, err = db.RunsForFile("missing.json", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
