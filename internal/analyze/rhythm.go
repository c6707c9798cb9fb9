package analyze

import (
	"fmt"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

// Chronotype classifications.
const (
	ChronotypeUnknown  = "unknown"
	ChronotypeNight    = "night"
	ChronotypeMorning  = "morning"
	ChronotypeBalanced = "balanced"
	ChronotypeEvening  = "evening"
)

// PeakWindow is the contiguous span of hours with the highest total count.
// EndHour is exclusive and clipped at the day boundary.
type PeakWindow struct {
	StartHour  int `json:"start_hour"`
	EndHour    int `json:"end_hour"`
	TotalTasks int `json:"total_tasks"`
}

// RhythmReport is the persisted rhythm profile artifact.
type RhythmReport struct {
	GeneratedAt        string             `json:"generated_at"`
	AnalysisPeriodDays int                `json:"analysis_period_days"`
	TotalTasks         int                `json:"total_tasks"`
	ActiveDays         int                `json:"active_days"`
	Chronotype         string             `json:"chronotype"`
	PeakHour           *int               `json:"peak_hour"`
	PeakWindow         *PeakWindow        `json:"peak_window"`
	HourlyDistribution [24]int            `json:"hourly_distribution"`
	WeekdayHourMatrix  map[string][24]int `json:"weekday_hour_matrix"`
	Insights           []string           `json:"insights"`
}

// AnalyzeRhythm builds the 24-hour activity histogram from timestamped
// completed records and classifies the chronotype. Records without an
// effective instant contribute nothing.
func AnalyzeRhythm(records []record.TaskRecord, cfg config.Rhythm) *RhythmReport {
	report := &RhythmReport{
		Chronotype:        ChronotypeUnknown,
		WeekdayHourMatrix: make(map[string][24]int),
	}

	var hours []float64
	activeDates := make(map[string]bool)

	for _, rec := range records {
		if !rec.Completed {
			continue
		}
		at := rec.EffectiveInstant()
		if at == nil {
			continue
		}

		hour := at.Hour()
		weekday := at.Weekday().String()

		report.HourlyDistribution[hour]++
		row := report.WeekdayHourMatrix[weekday]
		row[hour]++
		report.WeekdayHourMatrix[weekday] = row

		hours = append(hours, float64(hour))
		activeDates[rec.Date.Format("2006-01-02")] = true
	}

	report.TotalTasks = len(hours)
	report.ActiveDays = len(activeDates)
	report.Chronotype = classifyChronotype(hours, cfg.MinTasks)
	report.PeakHour = peakHour(report.HourlyDistribution)
	if report.TotalTasks > 0 {
		report.PeakWindow = peakWindow(report.HourlyDistribution, cfg.PeakWindowHours)
	}
	report.Insights = rhythmInsights(report)

	return report
}

// classifyChronotype uses the median hour, which resists a handful of
// outlier late or early instants better than the mean. Hours 0-4 are late
// night continuation, not morning.
func classifyChronotype(hours []float64, minTasks int) string {
	if len(hours) < minTasks {
		return ChronotypeUnknown
	}

	m := median(hours)
	switch {
	case m >= 0 && m <= 4:
		return ChronotypeNight
	case m < 11:
		return ChronotypeMorning
	case m > 17:
		return ChronotypeEvening
	default:
		return ChronotypeBalanced
	}
}

// peakHour returns the argmax of the histogram, nil when there is no
// activity at all. Ties go to the earliest hour: the scan only replaces the
// best on strictly greater counts.
func peakHour(histogram [24]int) *int {
	best := 0
	bestCount := 0
	any := false
	for hour, count := range histogram {
		if count > bestCount {
			best = hour
			bestCount = count
		}
		if count > 0 {
			any = true
		}
	}
	if !any {
		return nil
	}
	return &best
}

// peakWindow scans all 24 start hours and keeps the first maximal total.
// Windows near midnight are clipped rather than wrapped.
func peakWindow(histogram [24]int, width int) *PeakWindow {
	bestStart := 0
	bestSum := -1

	for start := 0; start < 24; start++ {
		end := start + width
		if end > 24 {
			end = 24
		}
		sum := 0
		for h := start; h < end; h++ {
			sum += histogram[h]
		}
		if sum > bestSum {
			bestSum = sum
			bestStart = start
		}
	}

	end := bestStart + width
	if end > 24 {
		end = 24
	}
	return &PeakWindow{StartHour: bestStart, EndHour: end, TotalTasks: bestSum}
}

func rhythmInsights(report *RhythmReport) []string {
	var insights []string

	if report.TotalTasks == 0 {
		return []string{"No completed tasks in the analysis period."}
	}

	if report.Chronotype != ChronotypeUnknown {
		labels := map[string]string{
			ChronotypeMorning:  "morning type",
			ChronotypeEvening:  "evening type",
			ChronotypeNight:    "night owl type",
			ChronotypeBalanced: "balanced type",
		}
		insights = append(insights, fmt.Sprintf("Your current rhythm is classified as: %s.", labels[report.Chronotype]))
	}

	if report.PeakHour != nil {
		insights = append(insights, fmt.Sprintf("Single peak hour: around %02d:00.", *report.PeakHour))
	}

	if w := report.PeakWindow; w != nil && w.EndHour > w.StartHour && w.TotalTasks > 0 {
		insights = append(insights, fmt.Sprintf("Most active window: %02d:00-%02d:00 (%d tasks in %d active days).",
			w.StartHour, w.EndHour, w.TotalTasks, report.ActiveDays))
	}

	if report.ActiveDays > 0 {
		avg := float64(report.TotalTasks) / float64(report.ActiveDays)
		insights = append(insights, fmt.Sprintf("Average completed tasks per active day: %.2f over %d active days.",
			avg, report.ActiveDays))
	}

	return insights
}
