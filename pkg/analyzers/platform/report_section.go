package platform

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Section rendering constants.
const (
	sectionTitle = "CROSS-PLATFORM REUSE"

	// Reusability coloring thresholds, in percent.
	reuseGoodThreshold = 70.0
	reuseFairThreshold = 40.0

	// defaultTopFiles bounds the per-file table in non-verbose mode.
	defaultTopFiles = 15
)

// RenderOptions controls text rendering.
type RenderOptions struct {
	// NoColor disables ANSI colors.
	NoColor bool

	// Verbose lists every file and every occurrence without truncation.
	Verbose bool

	// TopFiles bounds the per-file table when not verbose; 0 means the
	// default.
	TopFiles int
}

// WriteJSON writes the machine-readable summary. Field names are stable and
// the output is byte-for-byte reproducible for identical input.
func WriteJSON(summary *ProjectSummary, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(summary)
	if encodeErr != nil {
		return fmt.Errorf("encode summary: %w", encodeErr)
	}

	return nil
}

// WriteSignaturesJSON writes a signature list as indented JSON, for
// tooling that wants to inspect the active registry.
func WriteSignaturesJSON(signatures []Signature, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(map[string][]Signature{"signatures": signatures})
	if encodeErr != nil {
		return fmt.Errorf("encode signatures: %w", encodeErr)
	}

	return nil
}

// yamlSummary mirrors the JSON report shape for YAML consumers. Computed
// fields are filled at render time, never stored on the summary.
type yamlSummary struct {
	TotalStatements    int              `yaml:"totalStatements"`
	ReusabilityPercent float64          `yaml:"reusabilityPercent"`
	WebCount           int              `yaml:"webCount"`
	NativeCount        int              `yaml:"nativeCount"`
	SharedCount        int              `yaml:"sharedCount"`
	Files              []yamlFileTally  `yaml:"files"`
	Occurrences        []yamlOccurrence `yaml:"occurrences"`
	Skipped            []yamlSkipped    `yaml:"skipped"`
}

type yamlFileTally struct {
	File               string  `yaml:"file"`
	TotalStatements    int     `yaml:"totalStatements"`
	ReusabilityPercent float64 `yaml:"reusabilityPercent"`
	WebCount           int     `yaml:"webCount"`
	NativeCount        int     `yaml:"nativeCount"`
	SharedCount        int     `yaml:"sharedCount"`
}

type yamlOccurrence struct {
	File        string `yaml:"file"`
	Line        int    `yaml:"line"`
	Category    string `yaml:"category"`
	Signature   string `yaml:"signature"`
	Reason      string `yaml:"reason"`
	MatchedText string `yaml:"matchedText"`
}

type yamlSkipped struct {
	File   string `yaml:"file"`
	Reason string `yaml:"reason"`
}

// WriteYAML writes the summary as YAML with the same field names as JSON.
func WriteYAML(summary *ProjectSummary, w io.Writer) error {
	doc := yamlSummary{
		TotalStatements:    summary.TotalStatements(),
		ReusabilityPercent: summary.Reusability(),
		WebCount:           summary.WebCount,
		NativeCount:        summary.NativeCount,
		SharedCount:        summary.SharedCount,
		Files:              make([]yamlFileTally, 0, len(summary.Files)),
		Occurrences:        make([]yamlOccurrence, 0, len(summary.Occurrences)),
		Skipped:            make([]yamlSkipped, 0, len(summary.Skipped)),
	}

	for _, tally := range summary.Files {
		doc.Files = append(doc.Files, yamlFileTally{
			File:               tally.Path,
			TotalStatements:    tally.TotalStatements(),
			ReusabilityPercent: tally.Reusability(),
			WebCount:           tally.WebCount,
			NativeCount:        tally.NativeCount,
			SharedCount:        tally.SharedCount,
		})
	}

	for _, occ := range summary.Occurrences {
		doc.Occurrences = append(doc.Occurrences, yamlOccurrence{
			File:        occ.File,
			Line:        occ.Line,
			Category:    string(occ.Category),
			Signature:   occ.Signature,
			Reason:      occ.Reason,
			MatchedText: occ.MatchedText,
		})
	}

	for _, skipped := range summary.Skipped {
		doc.Skipped = append(doc.Skipped, yamlSkipped{File: skipped.Path, Reason: skipped.Reason})
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	encodeErr := encoder.Encode(doc)
	if encodeErr != nil {
		return fmt.Errorf("encode summary: %w", encodeErr)
	}

	return nil
}

// WriteText writes the human-readable report: a project header, a per-file
// table, and the skipped-file list.
func WriteText(summary *ProjectSummary, w io.Writer, opts RenderOptions) error {
	colorize := newColorizer(opts.NoColor)

	fmt.Fprintf(w, "=== %s ===\n\n", sectionTitle)
	fmt.Fprintf(w, "Files analyzed:   %s\n", humanize.Comma(int64(len(summary.Files))))
	fmt.Fprintf(w, "Total statements: %s\n", humanize.Comma(int64(summary.TotalStatements())))
	fmt.Fprintf(w, "Web:              %s\n", humanize.Comma(int64(summary.WebCount)))
	fmt.Fprintf(w, "Native:           %s\n", humanize.Comma(int64(summary.NativeCount)))
	fmt.Fprintf(w, "Shared:           %s\n", humanize.Comma(int64(summary.SharedCount)))
	fmt.Fprintf(w, "Reusability:      %s\n\n", colorize(summary.Reusability()))

	writeFileTable(summary, w, colorize, opts)
	writeSkipped(summary, w)

	return nil
}

// colorizer formats a reusability percentage, optionally colored by band.
type colorizer func(percent float64) string

func newColorizer(noColor bool) colorizer {
	if noColor {
		return func(percent float64) string {
			return fmt.Sprintf("%.1f%%", percent)
		}
	}

	good := color.New(color.FgGreen).SprintfFunc()
	fair := color.New(color.FgYellow).SprintfFunc()
	poor := color.New(color.FgRed).SprintfFunc()

	return func(percent float64) string {
		switch {
		case percent >= reuseGoodThreshold:
			return good("%.1f%%", percent)
		case percent >= reuseFairThreshold:
			return fair("%.1f%%", percent)
		default:
			return poor("%.1f%%", percent)
		}
	}
}

func writeFileTable(summary *ProjectSummary, w io.Writer, colorize colorizer, opts RenderOptions) {
	if len(summary.Files) == 0 {
		fmt.Fprintln(w, "No component files found.")

		return
	}

	limit := opts.TopFiles
	if limit <= 0 {
		limit = defaultTopFiles
	}

	files := summary.Files
	truncated := 0

	if !opts.Verbose && len(files) > limit {
		truncated = len(files) - limit
		files = files[:limit]
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Statements", "Web", "Native", "Shared", "Reuse"})

	for _, tally := range files {
		tbl.AppendRow(table.Row{
			tally.Path,
			tally.TotalStatements(),
			tally.WebCount,
			tally.NativeCount,
			tally.SharedCount,
			colorize(tally.Reusability()),
		})
	}

	tbl.Render()

	if truncated > 0 {
		fmt.Fprintf(w, "... and %d more files (use --verbose to list all)\n", truncated)
	}
}

func writeSkipped(summary *ProjectSummary, w io.Writer) {
	if len(summary.Skipped) == 0 {
		return
	}

	fmt.Fprintf(w, "\nSkipped files (%d):\n", len(summary.Skipped))

	for _, skipped := range summary.Skipped {
		fmt.Fprintf(w, "  %s: %s\n", skipped.Path, skipped.Reason)
	}
}
