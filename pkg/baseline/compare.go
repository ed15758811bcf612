package baseline

import (
	"fmt"
	"io"
	"sort"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

// Report is the outcome of checking a scan against a stored baseline.
type Report struct {
	BaselinePercent float64 `json:"baselinePercent"`
	CurrentPercent  float64 `json:"currentPercent"`

	// Delta is current minus baseline; negative means reuse dropped.
	Delta float64 `json:"delta"`

	// Tolerance is the allowed drop in percentage points.
	Tolerance float64 `json:"tolerance"`

	Regressed bool `json:"regressed"`

	// FileDeltas lists files whose reusability moved, worst first.
	FileDeltas []FileDelta `json:"fileDeltas,omitempty"`
}

// FileDelta is one file's reusability movement against the baseline. Files
// absent from either side are reported with the side they appear on.
type FileDelta struct {
	File    string  `json:"file"`
	Before  float64 `json:"before"`
	After   float64 `json:"after"`
	Change  float64 `json:"change"`
	Added   bool    `json:"added,omitempty"`
	Removed bool    `json:"removed,omitempty"`
}

// Compare checks the current summary against the baseline. The scan
// regresses when project reusability drops by more than the tolerance, in
// percentage points.
func Compare(snap *Snapshot, current *platform.ProjectSummary, tolerance float64) *Report {
	report := &Report{
		BaselinePercent: snap.ReusabilityPercent,
		CurrentPercent:  current.Reusability(),
		Tolerance:       tolerance,
	}

	report.Delta = report.CurrentPercent - report.BaselinePercent
	report.Regressed = report.Delta < -tolerance
	report.FileDeltas = fileDeltas(snap, current)

	return report
}

func fileDeltas(snap *Snapshot, current *platform.ProjectSummary) []FileDelta {
	before := make(map[string]float64, len(snap.Files))
	for _, record := range snap.Files {
		before[record.File] = record.ReusabilityPercent
	}

	seen := make(map[string]bool, len(current.Files))

	var deltas []FileDelta

	for _, tally := range current.Files {
		seen[tally.Path] = true

		after := tally.Reusability()

		prior, existed := before[tally.Path]
		if !existed {
			deltas = append(deltas, FileDelta{File: tally.Path, After: after, Added: true})

			continue
		}

		if prior != after {
			deltas = append(deltas, FileDelta{
				File:   tally.Path,
				Before: prior,
				After:  after,
				Change: after - prior,
			})
		}
	}

	for _, record := range snap.Files {
		if !seen[record.File] {
			deltas = append(deltas, FileDelta{
				File:    record.File,
				Before:  record.ReusabilityPercent,
				Removed: true,
			})
		}
	}

	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].Change != deltas[j].Change {
			return deltas[i].Change < deltas[j].Change
		}

		return deltas[i].File < deltas[j].File
	})

	return deltas
}

// WriteText renders the comparison for terminal consumption.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Baseline reusability: %.1f%%\n", r.BaselinePercent)
	fmt.Fprintf(w, "Current reusability:  %.1f%%\n", r.CurrentPercent)
	fmt.Fprintf(w, "Delta:                %+.1f pp (tolerance %.1f pp)\n", r.Delta, r.Tolerance)

	if r.Regressed {
		fmt.Fprintln(w, "Result: REGRESSED")
	} else {
		fmt.Fprintln(w, "Result: OK")
	}

	if len(r.FileDeltas) == 0 {
		return
	}

	fmt.Fprintf(w, "\nChanged files (%d):\n", len(r.FileDeltas))

	for _, delta := range r.FileDeltas {
		switch {
		case delta.Added:
			fmt.Fprintf(w, "  %s: new file at %.1f%%\n", delta.File, delta.After)
		case delta.Removed:
			fmt.Fprintf(w, "  %s: removed (was %.1f%%)\n", delta.File, delta.Before)
		default:
			fmt.Fprintf(w, "  %s: %.1f%% -> %.1f%% (%+.1f pp)\n",
				delta.File, delta.Before, delta.After, delta.Change)
		}
	}
}
