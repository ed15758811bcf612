package platform

import "encoding/json"

// fullReuse is the reusability percentage reported when a tally contains no
// statements: no statements means no platform-specific code was found.
const fullReuse = 100.0

const percentScale = 100.0

// PatternOccurrence is one confirmed match of a Signature against a specific
// statement. Immutable once created.
type PatternOccurrence struct {
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Category    Category `json:"category"`
	Signature   string   `json:"signature"`
	Reason      string   `json:"reason"`
	MatchedText string   `json:"matchedText"`
}

// StatementResult is the categorization outcome for one statement. It
// carries only the occurrences of the winning bucket; a statement
// contributes to exactly one category count.
type StatementResult struct {
	Category    Category            `json:"category"`
	StartLine   int                 `json:"startLine"`
	EndLine     int                 `json:"endLine"`
	Occurrences []PatternOccurrence `json:"occurrences,omitempty"`
}

// FileTally is the per-file aggregate built by the traversal driver.
// Occurrences holds every match found in the file, including those of
// losing buckets, for audit; document order.
type FileTally struct {
	Path        string              `json:"file"`
	WebCount    int                 `json:"webCount"`
	NativeCount int                 `json:"nativeCount"`
	SharedCount int                 `json:"sharedCount"`
	Statements  []StatementResult   `json:"-"`
	Occurrences []PatternOccurrence `json:"-"`
}

// TotalStatements returns the statement count; the three category counts
// always sum to it.
func (t *FileTally) TotalStatements() int {
	return t.WebCount + t.NativeCount + t.SharedCount
}

// Reusability returns sharedStatements / totalStatements * 100, recomputed
// from the counts on every call.
func (t *FileTally) Reusability() float64 {
	return reusability(t.SharedCount, t.TotalStatements())
}

// MarshalJSON adds the computed total and reusability fields. They are never
// stored, so they can never go stale relative to the counts.
func (t *FileTally) MarshalJSON() ([]byte, error) {
	type alias FileTally

	return json.Marshal(&struct {
		*alias
		TotalStatements    int     `json:"totalStatements"`
		ReusabilityPercent float64 `json:"reusabilityPercent"`
	}{
		alias:              (*alias)(t),
		TotalStatements:    t.TotalStatements(),
		ReusabilityPercent: t.Reusability(),
	})
}

// FileError records a file that was skipped (parse failure, timeout, read
// error). Skipped files contribute zero statements.
type FileError struct {
	Path   string `json:"file"`
	Reason string `json:"reason"`
}

// ProjectSummary is the whole-project aggregate: totals per category, every
// occurrence for audit, per-file tallies, and the skipped-file list.
// Read-only after construction.
type ProjectSummary struct {
	WebCount    int                 `json:"webCount"`
	NativeCount int                 `json:"nativeCount"`
	SharedCount int                 `json:"sharedCount"`
	Files       []*FileTally        `json:"files"`
	Occurrences []PatternOccurrence `json:"occurrences"`
	Skipped     []FileError         `json:"skipped"`
}

// TotalStatements returns the project-wide statement count.
func (s *ProjectSummary) TotalStatements() int {
	return s.WebCount + s.NativeCount + s.SharedCount
}

// Reusability returns the project reusability percentage, recomputed from
// the counts.
func (s *ProjectSummary) Reusability() float64 {
	return reusability(s.SharedCount, s.TotalStatements())
}

// MarshalJSON adds the computed total and reusability fields.
func (s *ProjectSummary) MarshalJSON() ([]byte, error) {
	type alias ProjectSummary

	return json.Marshal(&struct {
		TotalStatements    int     `json:"totalStatements"`
		ReusabilityPercent float64 `json:"reusabilityPercent"`
		*alias
	}{
		TotalStatements:    s.TotalStatements(),
		ReusabilityPercent: s.Reusability(),
		alias:              (*alias)(s),
	})
}

func reusability(shared, total int) float64 {
	if total == 0 {
		return fullReuse
	}

	return float64(shared) / float64(total) * percentScale
}
