// Package record normalizes heterogeneous archive task records into one
// canonical tagged-confidence representation. Every profiler consumes the
// canonical form; none of them branch on archive-era schema quirks.
package record

import (
	"strings"
	"time"

	"taskpulse/internal/archive"
)

// Source labels describe how directly a derived value was observed.
const (
	SourceExplicit  = "explicit"  // stated outright in the record
	SourceTimerange = "timerange" // derived from an HH:MM-HH:MM span
	SourceInferred  = "inferred"  // guessed from weaker context
	SourceFixed     = "fixed"     // known placeholder value
	SourceUnknown   = "unknown"   // nothing to derive from
)

// Confidence tiers paired with the source labels above.
const (
	ConfidenceExplicit  = 1.0
	ConfidenceTimerange = 0.7
	ConfidenceInferred  = 0.3
	ConfidenceFixed     = 0.1
	ConfidenceUnknown   = 0.0
)

// Duration spans outside this range are treated as implausible and
// discarded rather than clamped.
const (
	minPlausibleMinutes = 1
	maxPlausibleMinutes = 240
)

// TaskRecord is the canonical form of one task occurrence. The confidence
// tiers are always defined: a record with no duration or timestamp
// information carries the unknown source with confidence 0.
type TaskRecord struct {
	Title     string
	Category  string
	Completed bool
	Date      time.Time

	StartedAt   *time.Time
	CompletedAt *time.Time

	TimestampSource     string
	TimestampConfidence float64

	DurationMinutes    float64
	DurationSource     string
	DurationConfidence float64
}

// DurationSample is the tuple the duration profiler consumes.
type DurationSample struct {
	Category   string
	Minutes    float64
	Confidence float64
}

// EffectiveInstant returns the instant profilers should bucket by: the
// start instant when present, else the completion instant, else nil.
func (r *TaskRecord) EffectiveInstant() *time.Time {
	if r.StartedAt != nil {
		return r.StartedAt
	}
	return r.CompletedAt
}

// DurationSample extracts the profiler tuple, reporting false when the
// record carries no duration.
func (r *TaskRecord) DurationSample() (DurationSample, bool) {
	if r.DurationMinutes <= 0 {
		return DurationSample{}, false
	}
	return DurationSample{
		Category:   r.Category,
		Minutes:    r.DurationMinutes,
		Confidence: r.DurationConfidence,
	}, true
}

// IsCompleted reports whether a raw record is completed, using the
// multi-indicator OR: any one completion signal is sufficient because
// different producers emitted different markers over time.
func IsCompleted(raw archive.RawTask) bool {
	switch strings.ToLower(raw.Status) {
	case "completed", "done", "finished":
		return true
	}
	return strings.HasPrefix(raw.Title, "[x]") || strings.HasPrefix(raw.Title, "- [x]")
}

// Normalize converts one raw archive record into canonical form. It is a
// pure transform: malformed date-times are treated as absent, never raised.
func Normalize(raw archive.RawTask, date time.Time) TaskRecord {
	rec := TaskRecord{
		Title:     raw.Title,
		Category:  normalizeCategory(raw.Category),
		Completed: IsCompleted(raw),
		Date:      date,
	}

	rec.StartedAt = parseInstant(raw.StartedAt)
	rec.CompletedAt = parseInstant(raw.CompletedAt)

	// Quick-capture entries carry only a wall-clock HH:MM; combined with
	// the log date it is as good as an explicit instant.
	if rec.StartedAt == nil && rec.CompletedAt == nil && raw.Timestamp != "" {
		rec.CompletedAt = parseClock(raw.Timestamp, date)
	}

	var rangeStart, rangeEnd *time.Time
	if rec.StartedAt == nil && rec.CompletedAt == nil && raw.TimeRange != "" {
		rangeStart, rangeEnd = parseTimeRange(raw.TimeRange, date)
		rec.StartedAt = rangeStart
		rec.CompletedAt = rangeEnd
	}

	rec.TimestampSource, rec.TimestampConfidence = resolveTimestampTier(raw, rec, rangeStart != nil)
	rec.DurationMinutes, rec.DurationSource, rec.DurationConfidence = resolveDuration(raw, rec)

	return rec
}

// NormalizeDay normalizes every record of a daily log, scheduled and
// quick-capture alike.
func NormalizeDay(log archive.DailyLog) []TaskRecord {
	raws := log.AllTasks()
	out := make([]TaskRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, log.Date))
	}
	return out
}

// NormalizeAll flattens a window of daily logs into canonical records.
func NormalizeAll(logs []archive.DailyLog) []TaskRecord {
	var out []TaskRecord
	for _, log := range logs {
		out = append(out, NormalizeDay(log)...)
	}
	return out
}

func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return "uncategorized"
	}
	return category
}

func resolveTimestampTier(raw archive.RawTask, rec TaskRecord, fromRange bool) (string, float64) {
	// Enriched archives already tagged the tier; keep it.
	if raw.TimestampSource != "" {
		return raw.TimestampSource, raw.TimestampConfidence
	}

	switch {
	case fromRange:
		return SourceTimerange, ConfidenceTimerange
	case isFixedPlaceholder(raw.CompletedAt):
		return SourceFixed, ConfidenceFixed
	case rec.StartedAt != nil || rec.CompletedAt != nil:
		return SourceExplicit, ConfidenceExplicit
	default:
		return SourceUnknown, ConfidenceUnknown
	}
}

func resolveDuration(raw archive.RawTask, rec TaskRecord) (float64, string, float64) {
	if raw.DurationSource != "" {
		return raw.DurationMinutes, raw.DurationSource, raw.DurationConfidence
	}

	if raw.DurationMinutes > 0 {
		return raw.DurationMinutes, SourceExplicit, ConfidenceExplicit
	}
	if raw.DurationHours > 0 {
		return raw.DurationHours * 60, SourceExplicit, ConfidenceExplicit
	}

	if rec.StartedAt != nil && rec.CompletedAt != nil {
		span := rec.CompletedAt.Sub(*rec.StartedAt).Minutes()
		if span >= minPlausibleMinutes && span <= maxPlausibleMinutes {
			return span, SourceTimerange, ConfidenceTimerange
		}
		// Implausible span: discard the derivation, do not clamp.
	}

	return 0, SourceUnknown, ConfidenceUnknown
}

// isFixedPlaceholder detects the known placeholder instant older extractors
// stamped on tasks whose real completion time was lost.
func isFixedPlaceholder(value string) bool {
	return strings.Contains(value, "T01:00:00Z")
}

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseInstant(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func parseClock(clock string, date time.Time) *time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return nil
	}
	at := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
	return &at
}

func parseTimeRange(span string, date time.Time) (*time.Time, *time.Time) {
	parts := strings.SplitN(span, "-", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	start := parseClock(strings.TrimSpace(parts[0]), date)
	end := parseClock(strings.TrimSpace(parts[1]), date)
	if start == nil || end == nil {
		return nil, nil
	}
	return start, end
}
