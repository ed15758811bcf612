package platform

import (
	"sort"
)

// Aggregate combines per-file tallies into a ProjectSummary. Pure reduction:
// it sums category counts, concatenates occurrences preserving file order
// then statement order, and carries the skipped-file list through. Inputs
// are sorted by path first so the summary is byte-for-byte reproducible
// regardless of the order workers finished in.
func Aggregate(tallies []*FileTally, skipped []FileError) *ProjectSummary {
	ordered := make([]*FileTally, len(tallies))
	copy(ordered, tallies)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Path < ordered[j].Path
	})

	orderedSkipped := make([]FileError, len(skipped))
	copy(orderedSkipped, skipped)

	sort.Slice(orderedSkipped, func(i, j int) bool {
		return orderedSkipped[i].Path < orderedSkipped[j].Path
	})

	summary := &ProjectSummary{
		Files:       ordered,
		Occurrences: []PatternOccurrence{},
		Skipped:     orderedSkipped,
	}

	for _, tally := range ordered {
		summary.WebCount += tally.WebCount
		summary.NativeCount += tally.NativeCount
		summary.SharedCount += tally.SharedCount
		summary.Occurrences = append(summary.Occurrences, tally.Occurrences...)
	}

	return summary
}
