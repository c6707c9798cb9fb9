// Package health computes the composite health score for the automation
// pipeline: run reliability, artifact freshness and analytics completeness,
// combined into one weighted 0-100 score with tiered insights. Every input
// is optional; missing or corrupt sources degrade to neutral values instead
// of aborting the evaluation.
package health

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"taskpulse/internal/config"
	"taskpulse/internal/runlog"
	"taskpulse/internal/state"
)

// StatusNoData marks a component that had nothing to measure.
const StatusNoData = "no_data"

// StatusNoAnalytics marks the analytics component when no profiler output
// exists at all.
const StatusNoAnalytics = "no_analytics"

const neutralScore = 50

// AutomationComponent scores run reliability over the trailing window.
type AutomationComponent struct {
	Score       int     `json:"score"`
	Runs        int     `json:"runs"`
	Successes   int     `json:"successes"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
	WindowDays  int     `json:"window_days"`
	Status      string  `json:"status,omitempty"`
}

// FreshnessComponent scores how stale the profile artifacts are. Missing
// artifacts appear as null ages and are excluded from the average.
type FreshnessComponent struct {
	Score           int                 `json:"score"`
	AverageAgeHours *float64            `json:"average_age_hours,omitempty"`
	FileAgesHours   map[string]*float64 `json:"file_ages_hours"`
	Status          string              `json:"status,omitempty"`
}

// AnalyticsComponent scores how much history backs the profiler outputs.
type AnalyticsComponent struct {
	Score   int            `json:"score"`
	Details map[string]int `json:"details,omitempty"`
	Status  string         `json:"status,omitempty"`
}

// Components holds the three component sub-documents.
type Components struct {
	Automation      AutomationComponent `json:"automation"`
	DataFreshness   FreshnessComponent  `json:"data_freshness"`
	AnalyticsHealth AnalyticsComponent  `json:"analytics_health"`
}

// Report is the persisted health score artifact. It is regenerated whole on
// every invocation, never merged with a prior value.
type Report struct {
	GeneratedAt  string     `json:"generated_at"`
	Version      string     `json:"version"`
	OverallScore int        `json:"overall_score"`
	Components   Components `json:"components"`
	Insights     []string   `json:"insights"`
}

// RunCounter is the slice of the run log the evaluator needs.
type RunCounter interface {
	CountSince(ctx context.Context, since time.Time) (runlog.Counts, error)
}

// Evaluator aggregates the three component scores. Runs may be nil when no
// run log is available; that component then reports no_data.
type Evaluator struct {
	Runs     RunCounter
	StateDir string
	Cfg      config.Health
	Now      func() time.Time
}

// Evaluate computes the full health report.
func (e *Evaluator) Evaluate(ctx context.Context) *Report {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	automation := e.evaluateAutomation(ctx, now())
	freshness := e.evaluateFreshness(now())
	analytics := e.evaluateAnalytics()

	overall := int(math.Round(
		e.Cfg.AutomationWeight*float64(automation.Score) +
			e.Cfg.FreshnessWeight*float64(freshness.Score) +
			e.Cfg.AnalyticsWeight*float64(analytics.Score)))

	report := &Report{
		GeneratedAt:  state.Timestamp(now()),
		Version:      state.SchemaVersion,
		OverallScore: overall,
		Components: Components{
			Automation:      automation,
			DataFreshness:   freshness,
			AnalyticsHealth: analytics,
		},
	}
	report.Insights = insights(report, e.durationArtifactAge(now()))
	return report
}

func (e *Evaluator) evaluateAutomation(ctx context.Context, now time.Time) AutomationComponent {
	counts := runlog.Counts{}
	if e.Runs != nil {
		var err error
		counts, err = e.Runs.CountSince(ctx, now.AddDate(0, 0, -e.Cfg.WindowDays))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: reading run log: %v\n", err)
			counts = runlog.Counts{}
		}
	}
	component := ScoreAutomation(counts)
	component.WindowDays = e.Cfg.WindowDays
	return component
}

// ScoreAutomation maps run counts to the automation component. Zero runs is
// neutral: absence of evidence is not evidence of failure.
func ScoreAutomation(counts runlog.Counts) AutomationComponent {
	if counts.Runs == 0 {
		return AutomationComponent{Score: neutralScore, Status: StatusNoData}
	}

	rate := float64(counts.Successes) / float64(counts.Runs)
	var score int
	switch {
	case rate >= 0.95:
		score = 95
	case rate >= 0.90:
		score = 85
	case rate >= 0.80:
		score = 75
	case rate >= 0.70:
		score = 65
	default:
		score = int(math.Round(rate * 100))
		if score < neutralScore {
			score = neutralScore
		}
	}

	return AutomationComponent{
		Score:       score,
		Runs:        counts.Runs,
		Successes:   counts.Successes,
		Failures:    counts.Failures,
		SuccessRate: math.Round(rate*1000) / 1000,
	}
}

func (e *Evaluator) evaluateFreshness(now time.Time) FreshnessComponent {
	ages := make(map[string]*float64, len(state.ProfileFiles))
	for _, name := range state.ProfileFiles {
		if age, ok := state.AgeHours(filepath.Join(e.StateDir, name), now); ok {
			rounded := math.Round(age*10) / 10
			ages[name] = &rounded
		} else {
			ages[name] = nil
		}
	}
	return ScoreFreshness(ages)
}

// ScoreFreshness maps artifact ages to the freshness component. Missing
// artifacts are excluded from the average, not treated as infinitely stale.
func ScoreFreshness(ages map[string]*float64) FreshnessComponent {
	var present []float64
	for _, age := range ages {
		if age != nil {
			present = append(present, *age)
		}
	}

	if len(present) == 0 {
		return FreshnessComponent{Score: neutralScore, Status: StatusNoData, FileAgesHours: ages}
	}

	sum := 0.0
	for _, age := range present {
		sum += age
	}
	avg := sum / float64(len(present))

	var score int
	switch {
	case avg <= 6:
		score = 95
	case avg <= 24:
		score = 80
	case avg <= 48:
		score = 60
	default:
		score = 40
	}

	rounded := math.Round(avg*10) / 10
	return FreshnessComponent{Score: score, AverageAgeHours: &rounded, FileAgesHours: ages}
}

// Minimal projections of the profile artifacts for completeness scoring.
type durationDoc struct {
	TotalSamples int `json:"total_samples"`
}

type rhythmDoc struct {
	TotalTasks int `json:"total_tasks"`
	ActiveDays int `json:"active_days"`
}

type affinityDoc struct {
	TotalCompletedTasks int `json:"total_completed_tasks"`
	ActiveDays          int `json:"active_days"`
}

func (e *Evaluator) evaluateAnalytics() AnalyticsComponent {
	var scores []int
	details := make(map[string]int)

	var duration durationDoc
	if e.readArtifact(state.DurationFile, &duration) {
		score := ScoreDurationSamples(duration.TotalSamples)
		scores = append(scores, score)
		details["duration_samples"] = duration.TotalSamples
		details["duration_score"] = score
	}

	var rhythm rhythmDoc
	if e.readArtifact(state.RhythmFile, &rhythm) {
		score := ScoreRhythmCoverage(rhythm.ActiveDays, rhythm.TotalTasks)
		scores = append(scores, score)
		details["rhythm_active_days"] = rhythm.ActiveDays
		details["rhythm_samples"] = rhythm.TotalTasks
		details["rhythm_score"] = score
	}

	var affinity affinityDoc
	if e.readArtifact(state.AffinityFile, &affinity) {
		score := ScoreAffinityCoverage(affinity.ActiveDays, affinity.TotalCompletedTasks)
		scores = append(scores, score)
		details["category_samples"] = affinity.TotalCompletedTasks
		details["category_active_days"] = affinity.ActiveDays
		details["category_score"] = score
	}

	if len(scores) == 0 {
		return AnalyticsComponent{Score: neutralScore, Status: StatusNoAnalytics}
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	return AnalyticsComponent{Score: sum / len(scores), Details: details}
}

// readArtifact loads a profiler output, reporting false when it is missing
// or corrupt. Corrupt artifacts are warned about and excluded.
func (e *Evaluator) readArtifact(name string, out any) bool {
	path := filepath.Join(e.StateDir, name)
	if err := state.Read(path, out); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return false
	}
	return true
}

// ScoreDurationSamples maps the duration profile's accepted sample total to
// a completeness score.
func ScoreDurationSamples(total int) int {
	switch {
	case total >= 50:
		return 95
	case total >= 30:
		return 85
	case total >= 15:
		return 70
	case total >= 5:
		return 55
	default:
		return 40
	}
}

// ScoreRhythmCoverage maps joint active-day/task-count coverage to a score.
func ScoreRhythmCoverage(activeDays, totalTasks int) int {
	switch {
	case activeDays >= 15 && totalTasks >= 30:
		return 95
	case activeDays >= 10 && totalTasks >= 20:
		return 80
	case activeDays >= 5 && totalTasks >= 10:
		return 65
	default:
		return 45
	}
}

// ScoreAffinityCoverage maps joint active-day/task-count coverage to a score.
func ScoreAffinityCoverage(activeDays, totalTasks int) int {
	switch {
	case activeDays >= 14 && totalTasks >= 40:
		return 95
	case activeDays >= 10 && totalTasks >= 25:
		return 80
	case activeDays >= 5 && totalTasks >= 15:
		return 65
	default:
		return 45
	}
}

func (e *Evaluator) durationArtifactAge(now time.Time) *float64 {
	if age, ok := state.AgeHours(filepath.Join(e.StateDir, state.DurationFile), now); ok {
		return &age
	}
	return nil
}

func insights(report *Report, durationAge *float64) []string {
	var out []string

	switch {
	case report.OverallScore >= 90:
		out = append(out, "Pipeline is in excellent health.")
	case report.OverallScore >= 75:
		out = append(out, "Pipeline is healthy with minor areas for improvement.")
	case report.OverallScore >= 60:
		out = append(out, "Pipeline health is moderate. Some attention needed.")
	default:
		out = append(out, "Pipeline health is low. Review automation and data quality.")
	}

	automation := report.Components.Automation
	if automation.Score >= 90 {
		out = append(out, "Automation loop is highly reliable.")
	} else if automation.Failures > 0 {
		out = append(out, fmt.Sprintf("%d automation failure(s) detected in analysis window.", automation.Failures))
	}

	freshness := report.Components.DataFreshness
	if freshness.Score < 70 && freshness.AverageAgeHours != nil {
		out = append(out, fmt.Sprintf("Data freshness declined (avg age: %.1fh). Consider running analytics.",
			*freshness.AverageAgeHours))
	}

	analytics := report.Components.AnalyticsHealth
	if analytics.Score < 70 {
		out = append(out, "Analytics health is low. More task history needed for reliable patterns.")
	}
	if days, ok := analytics.Details["rhythm_active_days"]; ok && days < 10 {
		out = append(out, "Rhythm patterns need more data (target: 10+ active days).")
	}

	if durationAge != nil && *durationAge > 24 {
		out = append(out, "Duration stats are stale. Run: taskpulse analyze duration")
	}

	return out
}
