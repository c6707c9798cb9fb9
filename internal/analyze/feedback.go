package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentiment classifications for reflection text.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// StatusInsufficientData marks a trend computation over fewer than the
// minimum number of entries.
const StatusInsufficientData = "insufficient_data"

const minTrendEntries = 3

// FeedbackEntry is the subjective signal extracted from one day's
// reflection. Missing metrics stay nil rather than defaulting to zero.
type FeedbackEntry struct {
	Date             string `json:"date"`
	Mood             *int   `json:"mood,omitempty"`         // 1-5
	Energy           *int   `json:"energy,omitempty"`       // 1-10
	Satisfaction     *int   `json:"satisfaction,omitempty"` // 1-10
	Sentiment        string `json:"sentiment"`
	ReflectionLength int    `json:"reflection_length"`
}

// FeedbackReport is the persisted feedback history artifact.
type FeedbackReport struct {
	GeneratedAt        string            `json:"generated_at"`
	AnalysisPeriodDays int               `json:"analysis_period_days"`
	TotalEntries       int               `json:"total_entries"`
	Entries            []FeedbackEntry   `json:"entries"`
	Trends             map[string]string `json:"trends"`
	Insights           []string          `json:"insights"`
}

// moodEmoji is ordered best-to-worst; the first emoji found wins, so
// classification stays deterministic when a reflection mixes moods.
var moodEmoji = []struct {
	emoji string
	score int
}{
	{"😀", 5}, {"😃", 5}, {"😄", 5},
	{"🙂", 4}, {"😊", 4},
	{"😐", 3}, {"😑", 3},
	{"🙁", 2}, {"😕", 2},
	{"😞", 1}, {"😢", 1}, {"😭", 1},
}

// Bilingual keyword lists for the sentiment heuristic. Fixed by design of
// the tracker; counting is substring-based on the lowercased text.
var positiveWords = []string{
	"good", "great", "excellent", "productive", "satisfied",
	"happy", "progress", "completed", "success", "achieved",
	"順調", "良い", "完成", "達成", "満足",
}

var negativeWords = []string{
	"bad", "difficult", "tired", "frustrated", "stuck",
	"failed", "problem", "issue", "疲れ", "難しい", "問題",
}

var (
	energyPattern       = regexp.MustCompile(`(?i)energy:\s*(\d+)(?:\s*/\s*10)?`)
	satisfactionPattern = regexp.MustCompile(`(?i)satisfaction:\s*(\d+)(?:\s*/\s*10)?`)
)

// ParseReflection extracts a feedback entry from one day's reflection text.
// It reports false when no metric is present at all; sentiment alone does
// not make an entry.
func ParseReflection(date, text string) (FeedbackEntry, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return FeedbackEntry{}, false
	}

	entry := FeedbackEntry{
		Date:             date,
		Mood:             extractMood(text),
		Energy:           extractRating(energyPattern, text),
		Satisfaction:     extractRating(satisfactionPattern, text),
		Sentiment:        Sentiment(text),
		ReflectionLength: len([]rune(text)),
	}

	if entry.Mood == nil && entry.Energy == nil && entry.Satisfaction == nil {
		return FeedbackEntry{}, false
	}
	return entry, true
}

func extractMood(text string) *int {
	for _, m := range moodEmoji {
		if strings.Contains(text, m.emoji) {
			s := m.score
			return &s
		}
	}
	return nil
}

func extractRating(pattern *regexp.Regexp, text string) *int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	if v < 1 {
		v = 1
	}
	if v > 10 {
		v = 10
	}
	return &v
}

// Sentiment classifies free text by counting fixed positive versus negative
// keywords; a side needs a margin of more than one to win.
func Sentiment(text string) string {
	if text == "" {
		return SentimentNeutral
	}
	lower := strings.ToLower(text)

	pos := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	neg := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg+1:
		return SentimentPositive
	case neg > pos+1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// AnalyzeFeedback computes short-horizon trends over the entries, which
// must already be ordered by date. Fewer than three entries yields only the
// insufficient_data status.
func AnalyzeFeedback(entries []FeedbackEntry) *FeedbackReport {
	report := &FeedbackReport{
		TotalEntries: len(entries),
		Entries:      entries,
		Trends:       calculateTrends(entries),
	}
	report.Insights = feedbackInsights(entries, report.Trends)
	return report
}

func calculateTrends(entries []FeedbackEntry) map[string]string {
	if len(entries) < minTrendEntries {
		return map[string]string{"status": StatusInsufficientData}
	}

	recent := entries
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}

	trends := make(map[string]string)
	if dir, ok := trendDirection(metricValues(recent, func(e FeedbackEntry) *int { return e.Energy }), 1.0); ok {
		trends["energy"] = dir
	}
	if dir, ok := trendDirection(metricValues(recent, func(e FeedbackEntry) *int { return e.Satisfaction }), 1.0); ok {
		trends["satisfaction"] = dir
	}
	if dir, ok := trendDirection(metricValues(recent, func(e FeedbackEntry) *int { return e.Mood }), 0.5); ok {
		trends["mood"] = dir
	}
	return trends
}

func metricValues(entries []FeedbackEntry, get func(FeedbackEntry) *int) []float64 {
	var values []float64
	for _, e := range entries {
		if v := get(e); v != nil {
			values = append(values, float64(*v))
		}
	}
	return values
}

// trendDirection compares the average of the most recent three values with
// the average of everything before them. With exactly three values the
// older average equals the recent one, so the direction is stable.
func trendDirection(values []float64, margin float64) (string, bool) {
	if len(values) < 3 {
		return "", false
	}

	recentAvg := mean(values[len(values)-3:])
	olderAvg := recentAvg
	if len(values) > 3 {
		olderAvg = mean(values[:len(values)-3])
	}

	switch {
	case recentAvg > olderAvg+margin:
		return TrendUp, true
	case recentAvg < olderAvg-margin:
		return TrendDown, true
	default:
		return TrendStable, true
	}
}

func feedbackInsights(entries []FeedbackEntry, trends map[string]string) []string {
	var insights []string

	if len(entries) == 0 {
		return []string{"No feedback data available yet."}
	}

	recent := entries
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}

	if energy := metricValues(recent, func(e FeedbackEntry) *int { return e.Energy }); len(energy) > 0 {
		avg := mean(energy)
		switch {
		case avg >= 7.5:
			insights = append(insights, fmt.Sprintf("Recent energy levels are high (avg: %.1f/10).", avg))
		case avg <= 5:
			insights = append(insights, fmt.Sprintf("Recent energy levels are low (avg: %.1f/10) - consider lighter tasks.", avg))
		default:
			insights = append(insights, fmt.Sprintf("Energy levels are moderate (avg: %.1f/10).", avg))
		}
	}

	switch trends["energy"] {
	case TrendDown:
		insights = append(insights, "Energy trend is declining.")
	case TrendUp:
		insights = append(insights, "Energy trend is improving.")
	}
	switch trends["satisfaction"] {
	case TrendDown:
		insights = append(insights, "Satisfaction is declining - review task priorities.")
	case TrendUp:
		insights = append(insights, "Satisfaction is improving.")
	}

	positive := 0
	for _, e := range recent {
		if e.Sentiment == SentimentPositive {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(recent))
	if ratio >= 0.7 {
		insights = append(insights, "Overall sentiment is positive.")
	} else if ratio <= 0.3 {
		insights = append(insights, "Overall sentiment is low - might need rest or task adjustment.")
	}

	return insights
}
