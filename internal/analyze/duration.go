// Package analyze turns canonical task records into the four statistical
// profiles: duration expectations, daily rhythm, category-weekday affinity
// and feedback trends. Every profile is recomputed in full from the
// analysis window; there is no incremental state.
package analyze

import (
	"fmt"
	"strings"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

// Confidence labels derived purely from sample count.
const (
	ConfidenceNone         = "none"         // 0 samples
	ConfidenceInsufficient = "insufficient" // 1-2
	ConfidenceLow          = "low"          // 3-4
	ConfidenceMedium       = "medium"       // 5-9
	ConfidenceHigh         = "high"         // >= 10
)

// Fixed insight thresholds, in minutes. Deliberately not configurable.
const (
	quickTaskMinutes = 60
	longTaskMinutes  = 180
	unpredictableCoV = 0.5
)

// DurationStats is the descriptive summary for one scope (a category or
// "overall"). All values are minutes rounded to 2 decimal places.
type DurationStats struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Confidence string  `json:"confidence"`
}

// DurationReport is the persisted duration profile artifact.
type DurationReport struct {
	GeneratedAt        string                   `json:"generated_at"`
	AnalysisPeriodDays int                      `json:"analysis_period_days"`
	MinSamplesRequired int                      `json:"min_samples_required"`
	MinConfidence      float64                  `json:"min_confidence"`
	TotalSamples       int                      `json:"total_samples"`
	Overall            DurationStats            `json:"overall"`
	ByCategory         map[string]DurationStats `json:"by_category"`
	Insights           []string                 `json:"insights"`
}

// AnalyzeDurations computes per-category and overall duration statistics.
// Confidence filtering and the per-category sample minimum are independent
// gates: a category with many low-confidence samples still drops out.
func AnalyzeDurations(samples []record.DurationSample, cfg config.Duration) *DurationReport {
	byCategory := make(map[string][]float64)
	var accepted []float64

	for _, s := range samples {
		if s.Confidence < cfg.MinConfidence {
			continue
		}
		byCategory[s.Category] = append(byCategory[s.Category], s.Minutes)
		accepted = append(accepted, s.Minutes)
	}

	report := &DurationReport{
		MinSamplesRequired: cfg.MinSamples,
		MinConfidence:      cfg.MinConfidence,
		TotalSamples:       len(accepted),
		Overall:            durationStats(accepted),
		ByCategory:         make(map[string]DurationStats),
	}

	for category, values := range byCategory {
		if len(values) < cfg.MinSamples {
			continue
		}
		report.ByCategory[category] = durationStats(values)
	}

	report.Insights = durationInsights(report.ByCategory, report.Overall)
	return report
}

func durationStats(values []float64) DurationStats {
	return DurationStats{
		Count:      len(values),
		Mean:       round2(mean(values)),
		Median:     round2(median(values)),
		StdDev:     round2(stdDev(values)),
		Min:        round2(minOf(values)),
		Max:        round2(maxOf(values)),
		Confidence: confidenceLabel(len(values)),
	}
}

func confidenceLabel(count int) string {
	switch {
	case count >= 10:
		return ConfidenceHigh
	case count >= 5:
		return ConfidenceMedium
	case count >= 3:
		return ConfidenceLow
	case count >= 1:
		return ConfidenceInsufficient
	default:
		return ConfidenceNone
	}
}

func durationInsights(byCategory map[string]DurationStats, overall DurationStats) []string {
	var insights []string
	var quick, long, unpredictable []string

	for _, category := range sortedKeys(byCategory) {
		stats := byCategory[category]
		if stats.Confidence != ConfidenceMedium && stats.Confidence != ConfidenceHigh {
			continue
		}
		if stats.Mean < quickTaskMinutes {
			quick = append(quick, category)
		} else if stats.Mean > longTaskMinutes {
			long = append(long, category)
		}
		if stats.StdDev > stats.Mean*unpredictableCoV {
			unpredictable = append(unpredictable, category)
		}
	}

	if len(quick) > 0 {
		insights = append(insights, fmt.Sprintf("Quick tasks (< 1h): %s", strings.Join(quick, ", ")))
	}
	if len(long) > 0 {
		insights = append(insights, fmt.Sprintf("Long tasks (> 3h): %s", strings.Join(long, ", ")))
	}
	if len(unpredictable) > 0 {
		insights = append(insights, fmt.Sprintf("Unpredictable duration: %s", strings.Join(unpredictable, ", ")))
	}
	if overall.Count > 0 {
		insights = append(insights, fmt.Sprintf("Average task duration: %.1f min (%d completed tasks)",
			overall.Mean, overall.Count))
	}

	return insights
}
