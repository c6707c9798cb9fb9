package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/config"
	"taskpulse/internal/record"
)

func affinityCfg() config.Affinity {
	return config.Default().Affinity
}

func mondayTask(category string) record.TaskRecord {
	at := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC) // a Monday
	return record.TaskRecord{
		Completed:   true,
		Category:    category,
		Date:        at.Truncate(24 * time.Hour),
		CompletedAt: &at,
	}
}

func TestAffinityEndToEndDay(t *testing.T) {
	records := []record.TaskRecord{
		mondayTask("development"),
		mondayTask("development"),
		mondayTask("meetings"),
	}

	report := AnalyzeAffinity(records, affinityCfg())

	assert.Equal(t, 3, report.TotalCompletedTasks)
	assert.Equal(t, 1, report.ActiveDays)
	assert.Equal(t, 2, report.WeekdayCategory["Monday"]["development"])
	assert.Equal(t, 3, report.WeekdayTotals["Monday"])

	dominant := report.Dominant["Monday"]
	require.Len(t, dominant, 2)
	assert.Equal(t, "development", dominant[0].Category)
	assert.Equal(t, 66.7, dominant[0].Percentage)
	assert.Equal(t, "meetings", dominant[1].Category)
	assert.Equal(t, 33.3, dominant[1].Percentage)
}

func TestAffinityZeroTotalWeekdayYieldsEmptyList(t *testing.T) {
	report := AnalyzeAffinity(nil, affinityCfg())

	for _, day := range Weekdays {
		assert.NotNil(t, report.Dominant[day])
		assert.Empty(t, report.Dominant[day])
	}
}

func TestAffinityBelowThresholdExcluded(t *testing.T) {
	records := []record.TaskRecord{
		mondayTask("development"),
		mondayTask("development"),
		mondayTask("development"),
		mondayTask("meetings"), // 25%, under the 30% default
	}

	report := AnalyzeAffinity(records, affinityCfg())

	dominant := report.Dominant["Monday"]
	require.Len(t, dominant, 1)
	assert.Equal(t, "development", dominant[0].Category)
	assert.Equal(t, 75.0, dominant[0].Percentage)
}

func TestAffinitySkipsRecordsWithoutInstant(t *testing.T) {
	records := []record.TaskRecord{
		{Completed: true, Category: "development", Date: time.Now()},
	}
	report := AnalyzeAffinity(records, affinityCfg())
	assert.Equal(t, 0, report.TotalCompletedTasks)
}

func TestAffinityInsights(t *testing.T) {
	var records []record.TaskRecord
	for i := 0; i < 4; i++ {
		records = append(records, mondayTask("development"))
	}
	records = append(records, mondayTask("meetings"))

	report := AnalyzeAffinity(records, affinityCfg())

	assert.Contains(t, report.Insights, "Most common category overall: 'development' (4 tasks, 80.0%)")
	assert.Contains(t, report.Insights, "Busiest day: Monday (5 completed tasks)")
	assert.Contains(t, report.Insights, "Monday: Dominated by 'development' (80.0%)")
}

func TestAffinityLightDaysInsight(t *testing.T) {
	records := []record.TaskRecord{mondayTask("development")}
	report := AnalyzeAffinity(records, affinityCfg())
	assert.Contains(t, report.Insights, "Light activity days: Monday")
}

func TestAffinityIdempotent(t *testing.T) {
	records := []record.TaskRecord{
		mondayTask("development"),
		mondayTask("meetings"),
	}
	a := AnalyzeAffinity(records, affinityCfg())
	b := AnalyzeAffinity(records, affinityCfg())
	assert.Equal(t, a, b)
}
