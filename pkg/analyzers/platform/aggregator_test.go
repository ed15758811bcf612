package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

func TestAggregate_SumsCounts(t *testing.T) {
	t.Parallel()

	tallies := []*platform.FileTally{
		{Path: "a.tsx", WebCount: 3, NativeCount: 0, SharedCount: 2},
		{Path: "b.tsx", WebCount: 0, NativeCount: 2, SharedCount: 3},
	}

	summary := platform.Aggregate(tallies, nil)

	assert.Equal(t, 3, summary.WebCount)
	assert.Equal(t, 2, summary.NativeCount)
	assert.Equal(t, 5, summary.SharedCount)
	assert.Equal(t, 10, summary.TotalStatements())
	assert.InDelta(t, 50.0, summary.Reusability(), 0.001)
}

func TestAggregate_SortsByPath(t *testing.T) {
	t.Parallel()

	tallies := []*platform.FileTally{
		{Path: "z.tsx"},
		{Path: "a.tsx"},
		{Path: "m.tsx"},
	}
	skipped := []platform.FileError{
		{Path: "y.tsx", Reason: "syntax"},
		{Path: "b.tsx", Reason: "syntax"},
	}

	summary := platform.Aggregate(tallies, skipped)

	require.Len(t, summary.Files, 3)
	assert.Equal(t, "a.tsx", summary.Files[0].Path)
	assert.Equal(t, "m.tsx", summary.Files[1].Path)
	assert.Equal(t, "z.tsx", summary.Files[2].Path)

	require.Len(t, summary.Skipped, 2)
	assert.Equal(t, "b.tsx", summary.Skipped[0].Path)
	assert.Equal(t, "y.tsx", summary.Skipped[1].Path)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tallies := []*platform.FileTally{
		{Path: "z.tsx"},
		{Path: "a.tsx"},
	}

	platform.Aggregate(tallies, nil)

	assert.Equal(t, "z.tsx", tallies[0].Path)
	assert.Equal(t, "a.tsx", tallies[1].Path)
}

func TestAggregate_ConcatenatesOccurrencesInFileOrder(t *testing.T) {
	t.Parallel()

	tallies := []*platform.FileTally{
		{
			Path: "b.tsx",
			Occurrences: []platform.PatternOccurrence{
				{File: "b.tsx", Line: 1, Signature: "web.tag.div"},
			},
		},
		{
			Path: "a.tsx",
			Occurrences: []platform.PatternOccurrence{
				{File: "a.tsx", Line: 2, Signature: "native.tag.view"},
				{File: "a.tsx", Line: 5, Signature: "native.attr.onPress"},
			},
		},
	}

	summary := platform.Aggregate(tallies, nil)

	require.Len(t, summary.Occurrences, 3)
	assert.Equal(t, "a.tsx", summary.Occurrences[0].File)
	assert.Equal(t, "a.tsx", summary.Occurrences[1].File)
	assert.Equal(t, "b.tsx", summary.Occurrences[2].File)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	summary := platform.Aggregate(nil, nil)

	assert.Equal(t, 0, summary.TotalStatements())
	assert.InDelta(t, 100.0, summary.Reusability(), 0.001)
	assert.NotNil(t, summary.Occurrences)
	assert.Empty(t, summary.Files)
}
