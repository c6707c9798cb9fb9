package analyze

import (
	"fmt"
	"sort"
	"strings"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

// Weekdays in report order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DominantCategory is a category holding at least the configured share of
// one weekday's completed tasks.
type DominantCategory struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AffinityReport is the persisted category-weekday affinity artifact.
type AffinityReport struct {
	GeneratedAt         string                        `json:"generated_at"`
	AnalysisPeriodDays  int                           `json:"analysis_period_days"`
	TotalCompletedTasks int                           `json:"total_completed_tasks"`
	ActiveDays          int                           `json:"active_days"`
	WeekdayCategory     map[string]map[string]int     `json:"weekday_category_matrix"`
	CategoryTotals      map[string]int                `json:"category_totals"`
	WeekdayTotals       map[string]int                `json:"weekday_totals"`
	Dominant            map[string][]DominantCategory `json:"dominant_categories"`
	Insights            []string                      `json:"insights"`
}

// AnalyzeAffinity accumulates completed records into the weekday x category
// matrix and extracts per-weekday dominant categories. Records without an
// effective instant cannot be assigned a weekday and are skipped.
func AnalyzeAffinity(records []record.TaskRecord, cfg config.Affinity) *AffinityReport {
	report := &AffinityReport{
		WeekdayCategory: make(map[string]map[string]int, len(Weekdays)),
		CategoryTotals:  make(map[string]int),
		WeekdayTotals:   make(map[string]int, len(Weekdays)),
		Dominant:        make(map[string][]DominantCategory, len(Weekdays)),
	}
	for _, day := range Weekdays {
		report.WeekdayCategory[day] = make(map[string]int)
		report.WeekdayTotals[day] = 0
	}

	activeDates := make(map[string]bool)

	for _, rec := range records {
		if !rec.Completed {
			continue
		}
		at := rec.EffectiveInstant()
		if at == nil {
			continue
		}

		weekday := at.Weekday().String()
		report.WeekdayCategory[weekday][rec.Category]++
		report.CategoryTotals[rec.Category]++
		report.WeekdayTotals[weekday]++
		report.TotalCompletedTasks++
		activeDates[rec.Date.Format("2006-01-02")] = true
	}

	report.ActiveDays = len(activeDates)

	for _, day := range Weekdays {
		report.Dominant[day] = dominantFor(report.WeekdayCategory[day], report.WeekdayTotals[day], cfg.DominanceThreshold)
	}

	report.Insights = affinityInsights(report, cfg.MinDayTasks)
	return report
}

// dominantFor returns the categories meeting the share threshold, sorted by
// descending count. A weekday with zero total yields an empty list.
func dominantFor(categories map[string]int, total int, threshold float64) []DominantCategory {
	if total == 0 {
		return []DominantCategory{}
	}

	names := sortedKeys(categories)
	sort.SliceStable(names, func(i, j int) bool {
		return categories[names[i]] > categories[names[j]]
	})

	dominant := []DominantCategory{}
	for _, name := range names {
		count := categories[name]
		percentage := float64(count) / float64(total) * 100
		if percentage >= threshold*100 {
			dominant = append(dominant, DominantCategory{
				Category:   name,
				Count:      count,
				Percentage: round1(percentage),
			})
		}
	}
	return dominant
}

func affinityInsights(report *AffinityReport, minDayTasks int) []string {
	var insights []string

	if report.TotalCompletedTasks == 0 {
		return []string{"No completed tasks in the analysis period."}
	}

	if top, count := topCategory(report.CategoryTotals); top != "" {
		percentage := float64(count) / float64(report.TotalCompletedTasks) * 100
		insights = append(insights, fmt.Sprintf("Most common category overall: '%s' (%d tasks, %.1f%%)",
			top, count, percentage))
	}

	busiest, busiestCount := "", 0
	for _, day := range Weekdays {
		if report.WeekdayTotals[day] > busiestCount {
			busiest = day
			busiestCount = report.WeekdayTotals[day]
		}
	}
	if busiestCount > 0 {
		insights = append(insights, fmt.Sprintf("Busiest day: %s (%d completed tasks)", busiest, busiestCount))
	}

	for _, day := range Weekdays {
		dominant := report.Dominant[day]
		if len(dominant) == 0 || report.WeekdayTotals[day] < minDayTasks {
			continue
		}
		parts := make([]string, len(dominant))
		for i, d := range dominant {
			parts[i] = fmt.Sprintf("'%s' (%.1f%%)", d.Category, d.Percentage)
		}
		insights = append(insights, fmt.Sprintf("%s: Dominated by %s", day, strings.Join(parts, ", ")))
	}

	var light []string
	for _, day := range Weekdays {
		if count := report.WeekdayTotals[day]; count > 0 && count < minDayTasks {
			light = append(light, day)
		}
	}
	if len(light) > 0 {
		insights = append(insights, fmt.Sprintf("Light activity days: %s", strings.Join(light, ", ")))
	}

	return insights
}

func topCategory(totals map[string]int) (string, int) {
	best, bestCount := "", 0
	for _, name := range sortedKeys(totals) {
		if totals[name] > bestCount {
			best = name
			bestCount = totals[name]
		}
	}
	return best, bestCount
}
