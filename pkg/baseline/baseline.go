// Package baseline persists a snapshot of a prior scan and gates later
// scans against it, so reusability regressions fail CI instead of drifting
// in quietly.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/version"
)

// Sentinel errors for baseline handling.
var (
	ErrNoBaseline    = errors.New("baseline file does not exist")
	ErrCorruptedFile = errors.New("baseline file is corrupted")
)

// Snapshot is the persisted slice of a scan: the project percentages plus
// per-file percentages, enough to detect and attribute a regression without
// storing occurrences.
type Snapshot struct {
	CreatedAt          time.Time    `json:"createdAt"`
	ToolVersion        string       `json:"toolVersion"`
	TotalStatements    int          `json:"totalStatements"`
	ReusabilityPercent float64      `json:"reusabilityPercent"`
	WebCount           int          `json:"webCount"`
	NativeCount        int          `json:"nativeCount"`
	SharedCount        int          `json:"sharedCount"`
	Files              []FileRecord `json:"files"`
}

// FileRecord is one file's slice of a Snapshot.
type FileRecord struct {
	File               string  `json:"file"`
	TotalStatements    int     `json:"totalStatements"`
	ReusabilityPercent float64 `json:"reusabilityPercent"`
}

// FromSummary derives a Snapshot from a scan summary.
func FromSummary(summary *platform.ProjectSummary) *Snapshot {
	snap := &Snapshot{
		CreatedAt:          time.Now().UTC(),
		ToolVersion:        version.Version,
		TotalStatements:    summary.TotalStatements(),
		ReusabilityPercent: summary.Reusability(),
		WebCount:           summary.WebCount,
		NativeCount:        summary.NativeCount,
		SharedCount:        summary.SharedCount,
		Files:              make([]FileRecord, 0, len(summary.Files)),
	}

	for _, tally := range summary.Files {
		snap.Files = append(snap.Files, FileRecord{
			File:               tally.Path,
			TotalStatements:    tally.TotalStatements(),
			ReusabilityPercent: tally.Reusability(),
		})
	}

	return snap
}

// Write stores the snapshot as LZ4-compressed JSON. The file is written to a
// sibling temp path first and renamed, so a crashed run never leaves a
// truncated baseline behind.
func Write(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)

	mkdirErr := os.MkdirAll(dir, 0o755)
	if mkdirErr != nil {
		return fmt.Errorf("create baseline dir: %w", mkdirErr)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create baseline temp file: %w", err)
	}

	writeErr := writeSnapshot(tmp, snap)

	closeErr := tmp.Close()

	if writeErr != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("write baseline: %w", writeErr)
	}

	if closeErr != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close baseline temp file: %w", closeErr)
	}

	renameErr := os.Rename(tmp.Name(), path)
	if renameErr != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("rename baseline: %w", renameErr)
	}

	return nil
}

func writeSnapshot(w io.Writer, snap *Snapshot) error {
	compressor := lz4.NewWriter(w)

	encodeErr := json.NewEncoder(compressor).Encode(snap)
	if encodeErr != nil {
		compressor.Close()

		return encodeErr
	}

	return compressor.Close()
}

// Read loads a snapshot written by Write.
func Read(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoBaseline, path)
		}

		return nil, fmt.Errorf("open baseline: %w", err)
	}
	defer file.Close()

	var snap Snapshot

	decodeErr := json.NewDecoder(lz4.NewReader(file)).Decode(&snap)
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptedFile, path, decodeErr)
	}

	return &snap, nil
}
