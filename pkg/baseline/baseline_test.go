package baseline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/baseline"
)

func sampleSummary() *platform.ProjectSummary {
	return platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", WebCount: 1, SharedCount: 3},
		{Path: "Screen.tsx", NativeCount: 1, SharedCount: 1},
	}, nil)
}

func TestFromSummary(t *testing.T) {
	t.Parallel()

	snap := baseline.FromSummary(sampleSummary())

	assert.Equal(t, 6, snap.TotalStatements)
	assert.InDelta(t, 100.0*4.0/6.0, snap.ReusabilityPercent, 0.001)
	require.Len(t, snap.Files, 2)
	assert.Equal(t, "App.tsx", snap.Files[0].File)
	assert.InDelta(t, 75.0, snap.Files[0].ReusabilityPercent, 0.001)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestWriteRead_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reuse.baseline")
	snap := baseline.FromSummary(sampleSummary())

	require.NoError(t, baseline.Write(path, snap))

	loaded, err := baseline.Read(path)
	require.NoError(t, err)

	assert.Equal(t, snap.TotalStatements, loaded.TotalStatements)
	assert.InDelta(t, snap.ReusabilityPercent, loaded.ReusabilityPercent, 0.001)
	assert.Equal(t, snap.Files, loaded.Files)
}

func TestWrite_CreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "reuse.baseline")

	require.NoError(t, baseline.Write(path, baseline.FromSummary(sampleSummary())))

	_, err := baseline.Read(path)
	require.NoError(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := baseline.Read(filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, baseline.ErrNoBaseline)
}

func TestRead_CorruptedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not an lz4 frame"), 0o600))

	_, err := baseline.Read(path)
	require.ErrorIs(t, err, baseline.ErrCorruptedFile)
}

func TestCompare_NoChange(t *testing.T) {
	t.Parallel()

	summary := sampleSummary()
	snap := baseline.FromSummary(summary)

	report := baseline.Compare(snap, summary, 0.5)

	assert.False(t, report.Regressed)
	assert.InDelta(t, 0.0, report.Delta, 0.001)
	assert.Empty(t, report.FileDeltas)
}

func TestCompare_RegressionBeyondTolerance(t *testing.T) {
	t.Parallel()

	snap := baseline.FromSummary(sampleSummary())

	regressed := platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", WebCount: 3, SharedCount: 1},
		{Path: "Screen.tsx", NativeCount: 1, SharedCount: 1},
	}, nil)

	report := baseline.Compare(snap, regressed, 0.5)

	assert.True(t, report.Regressed)
	assert.Negative(t, report.Delta)

	require.NotEmpty(t, report.FileDeltas)
	assert.Equal(t, "App.tsx", report.FileDeltas[0].File)
	assert.Negative(t, report.FileDeltas[0].Change)
}

func TestCompare_DropWithinTolerance(t *testing.T) {
	t.Parallel()

	snap := baseline.FromSummary(platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", SharedCount: 1000},
	}, nil))

	current := platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", WebCount: 1, SharedCount: 999},
	}, nil)

	report := baseline.Compare(snap, current, 0.5)

	assert.False(t, report.Regressed)
}

func TestCompare_ImprovementNeverRegresses(t *testing.T) {
	t.Parallel()

	snap := baseline.FromSummary(platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", WebCount: 2, SharedCount: 2},
	}, nil))

	improved := platform.Aggregate([]*platform.FileTally{
		{Path: "App.tsx", WebCount: 1, SharedCount: 3},
	}, nil)

	report := baseline.Compare(snap, improved, 0)

	assert.False(t, report.Regressed)
	assert.Positive(t, report.Delta)
}

func TestCompare_AddedAndRemovedFiles(t *testing.T) {
	t.Parallel()

	snap := baseline.FromSummary(platform.Aggregate([]*platform.FileTally{
		{Path: "Old.tsx", SharedCount: 1},
	}, nil))

	current := platform.Aggregate([]*platform.FileTally{
		{Path: "New.tsx", SharedCount: 1},
	}, nil)

	report := baseline.Compare(snap, current, 0)

	require.Len(t, report.FileDeltas, 2)

	byFile := make(map[string]baseline.FileDelta)
	for _, delta := range report.FileDeltas {
		byFile[delta.File] = delta
	}

	assert.True(t, byFile["New.tsx"].Added)
	assert.True(t, byFile["Old.tsx"].Removed)
}
