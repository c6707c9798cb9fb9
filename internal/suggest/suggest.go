// Package suggest ranks candidate tasks for the day by combining priority
// with the learned rhythm, category-affinity and feedback profiles. Missing
// profiles degrade every signal to a neutral value; the scorer never
// requires analytics to exist.
package suggest

import (
	"sort"
	"strings"

	"taskpulse/internal/analyze"
	"taskpulse/internal/config"
)

// Score components for candidates without profile backing.
const (
	neutralSignal = 0.5

	peakMatchSignal = 1.0
	offPeakSignal   = 0.2
	flexibleSignal  = 0.6

	dominantSignal = 1.0
	familiarSignal = 0.6
	unusualSignal  = 0.4
)

// Energy multiplier bounds.
const (
	lowEnergyMax  = 4
	highEnergyMin = 8

	lowEnergyMultiplier  = 0.6
	highEnergyMultiplier = 1.2
)

// Reasons for an empty result; reported so a caller can tell "nothing to
// suggest" apart from "no scoring occurred".
const (
	ReasonNoCandidates = "no candidates available"
	ReasonAllPlanned   = "all candidates are already planned for today"
)

// Candidate is one task proposal, typically from tomorrow.json.
type Candidate struct {
	Task             string `json:"task"`
	Priority         int    `json:"priority"`
	Category         string `json:"category,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
	EstimatedTime    string `json:"estimated_time,omitempty"`
}

// Context carries the target day and whatever profiles are available.
// Nil profiles are legal and yield neutral scores.
type Context struct {
	Weekday  string
	Rhythm   *analyze.RhythmReport
	Affinity *analyze.AffinityReport
	Energy   *int
}

// ScoredCandidate pairs a candidate with its composite score.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
}

// Result is the ranked suggestion set.
type Result struct {
	GeneratedAt string            `json:"generated_at"`
	Weekday     string            `json:"weekday"`
	Empty       bool              `json:"empty"`
	Reason      string            `json:"reason,omitempty"`
	Suggestions []ScoredCandidate `json:"suggestions"`
}

// Score computes the composite score for one candidate:
// weighted priority, rhythm fit and category fit, scaled by the energy
// multiplier. The range is [0, ~1.44].
func Score(c Candidate, ctx Context, cfg config.Suggest) float64 {
	score := cfg.PriorityWeight*priorityScore(c.Priority) +
		cfg.RhythmWeight*rhythmScore(c, ctx.Rhythm, cfg) +
		cfg.CategoryWeight*categoryScore(c, ctx)
	return score * EnergyMultiplier(ctx.Energy)
}

// priorityScore maps priority 1..3 to 1.0 / 0.67 / 0.33.
func priorityScore(priority int) float64 {
	if priority < 1 {
		priority = 1
	}
	if priority > 3 {
		priority = 3
	}
	return float64(4-priority) / 3
}

// rhythmScore matches heavy tasks against the classified chronotype. Heavy
// work fits a pronounced morning or evening rhythm; anything lighter is
// flexible enough to score the same everywhere, profile or not. Only a
// heavy task with no rhythm profile falls back to neutral.
func rhythmScore(c Candidate, rhythm *analyze.RhythmReport, cfg config.Suggest) float64 {
	if c.EstimatedMinutes < cfg.HeavyTaskMinutes {
		return flexibleSignal
	}
	if rhythm == nil {
		return neutralSignal
	}

	switch rhythm.Chronotype {
	case analyze.ChronotypeMorning, analyze.ChronotypeEvening:
		return peakMatchSignal
	default:
		return offPeakSignal
	}
}

// categoryScore rewards categories the affinity profile says belong on this
// weekday.
func categoryScore(c Candidate, ctx Context) float64 {
	if ctx.Affinity == nil {
		return neutralSignal
	}

	for _, dominant := range ctx.Affinity.Dominant[ctx.Weekday] {
		if dominant.Category == c.Category {
			return dominantSignal
		}
	}
	if ctx.Affinity.WeekdayCategory[ctx.Weekday][c.Category] > 0 {
		return familiarSignal
	}
	return unusualSignal
}

// EnergyMultiplier scales scores by today's reported energy. No signal is
// neutral.
func EnergyMultiplier(energy *int) float64 {
	switch {
	case energy == nil:
		return 1.0
	case *energy <= lowEnergyMax:
		return lowEnergyMultiplier
	case *energy <= highEnergyMin-1:
		return 1.0
	default:
		return highEnergyMultiplier
	}
}

// Dedup removes candidates whose text substring-matches an already-present
// task in either direction, case-insensitively.
func Dedup(candidates []Candidate, existing []string) []Candidate {
	lowered := make([]string, len(existing))
	for i, task := range existing {
		lowered[i] = strings.ToLower(task)
	}

	var kept []Candidate
	for _, c := range candidates {
		text := strings.ToLower(c.Task)
		duplicate := false
		for _, have := range lowered {
			if have == "" {
				continue
			}
			if strings.Contains(have, text) || strings.Contains(text, have) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

// Rank deduplicates, scores and sorts the candidates, returning the top N.
// The sort is stable so equal scores keep candidate order.
func Rank(candidates []Candidate, existing []string, ctx Context, cfg config.Suggest) *Result {
	result := &Result{Weekday: ctx.Weekday}

	if len(candidates) == 0 {
		result.Empty = true
		result.Reason = ReasonNoCandidates
		return result
	}

	kept := Dedup(candidates, existing)
	if len(kept) == 0 {
		result.Empty = true
		result.Reason = ReasonAllPlanned
		return result
	}

	scored := make([]ScoredCandidate, len(kept))
	for i, c := range kept {
		scored[i] = ScoredCandidate{Candidate: c, Score: Score(c, ctx, cfg)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > cfg.Limit {
		scored = scored[:cfg.Limit]
	}
	result.Suggestions = scored
	return result
}
