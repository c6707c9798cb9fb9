// Package state persists and reads the profile artifacts. Every artifact
// is a standalone JSON document, fully overwritten on each run; a run never
// merges into a previous artifact.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SchemaVersion is stamped into artifacts that carry a version field.
const SchemaVersion = "1.0"

// Artifact file names under the state directory.
const (
	DurationFile   = "duration-patterns.json"
	RhythmFile     = "rhythm-patterns.json"
	AffinityFile   = "category-heatmap.json"
	FeedbackFile   = "feedback-history.json"
	HealthFile     = "health-score.json"
	CandidatesFile = "tomorrow.json"
)

// ProfileFiles are the artifacts tracked for freshness scoring.
var ProfileFiles = []string{DurationFile, RhythmFile, AffinityFile, FeedbackFile}

// Timestamp formats a generation instant the way every artifact carries it.
func Timestamp(now time.Time) string {
	return now.Format(time.RFC3339)
}

// Write marshals doc and replaces the artifact at path atomically: the
// document is written to a temp file in the same directory and renamed over
// the target, so a crashed run never leaves a half-written artifact.
func Write(path string, doc any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Read unmarshals the artifact at path into out. The caller decides whether
// a missing or corrupt artifact is recoverable; Read just reports it.
func Read(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// AgeHours returns how stale the artifact at path is, and false when the
// artifact does not exist.
func AgeHours(path string, now time.Time) (float64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return now.Sub(info.ModTime()).Hours(), true
}
