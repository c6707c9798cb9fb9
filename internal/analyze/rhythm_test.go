package analyze

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

func rhythmCfg() config.Rhythm {
	return config.Default().Rhythm
}

func completedAt(t *testing.T, day, clock string) record.TaskRecord {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	require.NoError(t, err)
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return record.TaskRecord{
		Completed:   true,
		Date:        date,
		CompletedAt: &at,
		Category:    "development",
	}
}

func TestChronotypeBoundaries(t *testing.T) {
	tests := []struct {
		medianHour int
		want       string
	}{
		{4, ChronotypeNight},
		{5, ChronotypeMorning},
		{10, ChronotypeMorning},
		{11, ChronotypeBalanced},
		{17, ChronotypeBalanced},
		{18, ChronotypeEvening},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("median_%d", tt.medianHour), func(t *testing.T) {
			// Ten identical hours: median equals the hour itself.
			hours := make([]float64, 10)
			for i := range hours {
				hours[i] = float64(tt.medianHour)
			}
			assert.Equal(t, tt.want, classifyChronotype(hours, 10))
		})
	}
}

func TestChronotypeUnknownBelowMinimum(t *testing.T) {
	hours := []float64{9, 9, 9}
	assert.Equal(t, ChronotypeUnknown, classifyChronotype(hours, 10))
}

func TestChronotypeMedianResistsOutliers(t *testing.T) {
	// Nine morning tasks and two late-night ones: median stays morning.
	hours := []float64{8, 8, 9, 9, 9, 10, 10, 10, 11, 23, 23}
	assert.Equal(t, ChronotypeMorning, classifyChronotype(hours, 10))
}

func TestPeakHourFirstWinsOnTie(t *testing.T) {
	var histogram [24]int
	histogram[9] = 5
	histogram[14] = 5

	peak := peakHour(histogram)
	require.NotNil(t, peak)
	assert.Equal(t, 9, *peak)
}

func TestPeakHourNilWhenNoActivity(t *testing.T) {
	var histogram [24]int
	assert.Nil(t, peakHour(histogram))
}

func TestPeakWindowEarliestStartOnTie(t *testing.T) {
	var histogram [24]int
	// Two windows with equal totals: 6-9 and 15-18.
	histogram[6], histogram[7], histogram[8] = 2, 2, 2
	histogram[15], histogram[16], histogram[17] = 2, 2, 2

	w := peakWindow(histogram, 3)
	assert.Equal(t, 6, w.StartHour)
	assert.Equal(t, 9, w.EndHour)
	assert.Equal(t, 6, w.TotalTasks)
}

func TestPeakWindowClippedAtDayBoundary(t *testing.T) {
	var histogram [24]int
	histogram[22] = 5
	histogram[23] = 5

	w := peakWindow(histogram, 3)
	assert.Equal(t, 21, w.StartHour)
	assert.Equal(t, 24, w.EndHour)
	assert.Equal(t, 10, w.TotalTasks)
}

func TestAnalyzeRhythmCountsAndActiveDays(t *testing.T) {
	records := []record.TaskRecord{
		completedAt(t, "2026-08-24", "09:00"),
		completedAt(t, "2026-08-24", "09:30"),
		completedAt(t, "2026-08-25", "10:00"),
		// Not completed: ignored.
		{Date: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)},
	}
	// No instant: ignored even though completed.
	records = append(records, record.TaskRecord{
		Completed: true,
		Date:      time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	})

	report := AnalyzeRhythm(records, rhythmCfg())

	assert.Equal(t, 3, report.TotalTasks)
	assert.Equal(t, 2, report.ActiveDays)
	assert.Equal(t, 2, report.HourlyDistribution[9])
	assert.Equal(t, 1, report.HourlyDistribution[10])
	assert.Equal(t, ChronotypeUnknown, report.Chronotype) // below min tasks
	require.NotNil(t, report.PeakHour)
	assert.Equal(t, 9, *report.PeakHour)
}

func TestAnalyzeRhythmWeekdayMatrix(t *testing.T) {
	records := []record.TaskRecord{
		completedAt(t, "2026-08-24", "09:00"), // Monday
		completedAt(t, "2026-08-25", "14:00"), // Tuesday
	}
	report := AnalyzeRhythm(records, rhythmCfg())

	assert.Equal(t, 1, report.WeekdayHourMatrix["Monday"][9])
	assert.Equal(t, 1, report.WeekdayHourMatrix["Tuesday"][14])
}

func TestAnalyzeRhythmStartInstantPreferred(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2026-08-24T07:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-08-24T19:00:00Z")
	records := []record.TaskRecord{{
		Completed:   true,
		Date:        time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartedAt:   &start,
		CompletedAt: &end,
	}}
	report := AnalyzeRhythm(records, rhythmCfg())
	assert.Equal(t, 1, report.HourlyDistribution[7])
	assert.Equal(t, 0, report.HourlyDistribution[19])
}

func TestAnalyzeRhythmEmpty(t *testing.T) {
	report := AnalyzeRhythm(nil, rhythmCfg())
	assert.Equal(t, 0, report.TotalTasks)
	assert.Nil(t, report.PeakHour)
	assert.Nil(t, report.PeakWindow)
	assert.Equal(t, ChronotypeUnknown, report.Chronotype)
	assert.Contains(t, report.Insights, "No completed tasks in the analysis period.")
}

func TestAnalyzeRhythmIdempotent(t *testing.T) {
	records := []record.TaskRecord{
		completedAt(t, "2026-08-24", "09:00"),
		completedAt(t, "2026-08-25", "21:00"),
	}
	a := AnalyzeRhythm(records, rhythmCfg())
	b := AnalyzeRhythm(records, rhythmCfg())
	assert.Equal(t, a, b)
}
