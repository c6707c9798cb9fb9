package analyze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

func durationCfg() config.Duration {
	return config.Default().Duration
}

func explicitSamples(category string, minutes ...float64) []record.DurationSample {
	out := make([]record.DurationSample, len(minutes))
	for i, m := range minutes {
		out[i] = record.DurationSample{Category: category, Minutes: m, Confidence: 1.0}
	}
	return out
}

func TestConfidenceLabelTable(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, ConfidenceNone},
		{1, ConfidenceInsufficient},
		{2, ConfidenceInsufficient},
		{3, ConfidenceLow},
		{4, ConfidenceLow},
		{5, ConfidenceMedium},
		{9, ConfidenceMedium},
		{10, ConfidenceHigh},
		{25, ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("count_%d", tt.count), func(t *testing.T) {
			assert.Equal(t, tt.want, confidenceLabel(tt.count))
		})
	}
}

func TestAnalyzeDurationsEndToEndDay(t *testing.T) {
	// The three-task day: two development tasks (90, 60) and one meeting (30).
	samples := append(explicitSamples("development", 90, 60), explicitSamples("meetings", 30)...)

	cfg := durationCfg()
	cfg.MinSamples = 2
	report := AnalyzeDurations(samples, cfg)

	assert.Equal(t, 3, report.Overall.Count)
	assert.Equal(t, 60.0, report.Overall.Mean)

	dev, ok := report.ByCategory["development"]
	require.True(t, ok)
	assert.Equal(t, 2, dev.Count)
	assert.Equal(t, 75.0, dev.Mean)

	// meetings has one sample, below the per-category minimum.
	_, ok = report.ByCategory["meetings"]
	assert.False(t, ok)
}

func TestConfidenceGateIsIndependentOfSampleGate(t *testing.T) {
	// Many samples, all below the confidence threshold: category excluded
	// and nothing reaches the overall profile either.
	var samples []record.DurationSample
	for i := 0; i < 20; i++ {
		samples = append(samples, record.DurationSample{Category: "guesswork", Minutes: 30, Confidence: 0.3})
	}
	report := AnalyzeDurations(samples, durationCfg())

	assert.Equal(t, 0, report.TotalSamples)
	assert.Equal(t, ConfidenceNone, report.Overall.Confidence)
	assert.Empty(t, report.ByCategory)
}

func TestTimerangeSamplesPassDefaultThreshold(t *testing.T) {
	samples := []record.DurationSample{
		{Category: "ops", Minutes: 20, Confidence: 0.7},
		{Category: "ops", Minutes: 30, Confidence: 0.7},
		{Category: "ops", Minutes: 40, Confidence: 1.0},
	}
	report := AnalyzeDurations(samples, durationCfg())
	assert.Equal(t, 3, report.TotalSamples)
	assert.Equal(t, 3, report.ByCategory["ops"].Count)
}

func TestDurationStatsValues(t *testing.T) {
	stats := durationStats([]float64{10, 20, 30, 40})
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 25.0, stats.Mean)
	assert.Equal(t, 25.0, stats.Median)
	assert.Equal(t, 12.91, stats.StdDev) // sample stdev, n-1
	assert.Equal(t, 10.0, stats.Min)
	assert.Equal(t, 40.0, stats.Max)
	assert.Equal(t, ConfidenceLow, stats.Confidence)
}

func TestStdDevZeroForSingleSample(t *testing.T) {
	stats := durationStats([]float64{45})
	assert.Equal(t, 0.0, stats.StdDev)
}

func TestDurationInsights(t *testing.T) {
	var samples []record.DurationSample
	// quick: 5 samples under an hour
	samples = append(samples, explicitSamples("email", 10, 12, 9, 11, 10)...)
	// long: 5 samples over three hours
	samples = append(samples, explicitSamples("research", 200, 220, 240, 210, 230)...)
	// unpredictable: wildly varying
	samples = append(samples, explicitSamples("debugging", 10, 150, 20, 140, 15)...)

	report := AnalyzeDurations(samples, durationCfg())

	assert.Contains(t, report.Insights, "Quick tasks (< 1h): email")
	assert.Contains(t, report.Insights, "Long tasks (> 3h): research")
	assert.Contains(t, report.Insights, "Unpredictable duration: debugging")
}

func TestAnalyzeDurationsIdempotent(t *testing.T) {
	samples := explicitSamples("development", 90, 60, 30, 45, 120)
	a := AnalyzeDurations(samples, durationCfg())
	b := AnalyzeDurations(samples, durationCfg())
	assert.Equal(t, a, b)
}
