// Package archive loads daily task logs from the date-addressed JSON
// archive. The archive is the engine's only input; each run reads a
// trailing window of days as a read-only snapshot.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RawTask is one task occurrence as stored in the archive. The schema has
// drifted across archive eras, so most fields are optional and several
// carry the same information in different shapes; the record normalizer
// resolves them into one canonical form.
type RawTask struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Category string `json:"category"`

	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`

	// Timestamp is an HH:MM wall-clock time from quick-capture log entries.
	Timestamp string `json:"timestamp,omitempty"`

	// TimeRange is an "HH:MM-HH:MM" span from older digest formats.
	TimeRange string `json:"time_range,omitempty"`

	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	DurationHours   float64 `json:"duration_hours,omitempty"`

	// Enriched archives carry source/confidence tags already; when present
	// the normalizer keeps them instead of re-deriving.
	TimestampSource     string  `json:"timestamp_source,omitempty"`
	TimestampConfidence float64 `json:"timestamp_confidence,omitempty"`
	DurationSource      string  `json:"duration_source,omitempty"`
	DurationConfidence  float64 `json:"duration_confidence,omitempty"`
}

// DailyLog is the set of task records for one calendar day, plus the
// reflection text the digest extractor captured for that day. Immutable
// once loaded; profilers never write back.
type DailyLog struct {
	Date       time.Time `json:"-"`
	Tasks      []RawTask `json:"tasks"`
	Completed  []RawTask `json:"completed"`
	Reflection string    `json:"reflection,omitempty"`
}

// AllTasks returns scheduled and quick-capture completed records together.
func (d *DailyLog) AllTasks() []RawTask {
	out := make([]RawTask, 0, len(d.Tasks)+len(d.Completed))
	out = append(out, d.Tasks...)
	out = append(out, d.Completed...)
	return out
}

// FileName returns the archive file name for a given date.
func FileName(date time.Time) string {
	return fmt.Sprintf("task-entry-%s.json", date.Format("2006-01-02"))
}

// LoadWindow reads the daily logs for the trailing window ending at now.
// Missing days are skipped silently; malformed files are warned to stderr
// and skipped. A missing archive root is the one fatal condition: no
// partial result is meaningful without it.
func LoadWindow(root string, days int, now time.Time) ([]DailyLog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("archive root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s is not a directory", root)
	}

	var logs []DailyLog
	// Anchor on the local calendar day. Truncating to 24h would snap to
	// UTC midnight and shift the window a day in zones ahead of UTC.
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < days; i++ {
		date := day.AddDate(0, 0, -i)
		path := filepath.Join(root, FileName(date))

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "warning: reading %s: %v\n", path, err)
			}
			continue
		}

		var log DailyLog
		if err := json.Unmarshal(data, &log); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping invalid JSON: %s\n", path)
			continue
		}
		log.Date = date
		logs = append(logs, log)
	}

	return logs, nil
}
