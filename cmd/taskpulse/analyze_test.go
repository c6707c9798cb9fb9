package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/analyze"
	"taskpulse/internal/archive"
	"taskpulse/internal/config"
)

func testLogs() []archive.DailyLog {
	return []archive.DailyLog{
		{
			Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Tasks: []archive.RawTask{
				{Title: "write report", Status: "completed", Category: "work", DurationMinutes: 60, StartedAt: "2026-03-02T09:00:00Z"},
				{Title: "still open", Status: "pending", Category: "work", DurationMinutes: 30},
			},
			Completed: []archive.RawTask{
				{Title: "quick capture", Status: "done", Category: "admin", Timestamp: "14:30", DurationMinutes: 15},
			},
			Reflection: "Solid day. Energy: 8/10",
		},
	}
}

func TestCompletedRecordsFiltersOpenTasks(t *testing.T) {
	records := completedRecords(testLogs())
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.True(t, rec.Completed)
	}
}

func TestDurationJobBuildsArtifact(t *testing.T) {
	cfg = config.Default()
	cfg.Duration.MinSamples = 1

	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	doc, insightLines := durationJob().build(testLogs(), now)

	report, ok := doc.(*analyze.DurationReport)
	require.True(t, ok)
	assert.Equal(t, "2026-03-03T08:00:00Z", report.GeneratedAt)
	assert.Equal(t, cfg.WindowDays, report.AnalysisPeriodDays)
	// The pending task's sample is excluded.
	assert.Equal(t, 2, report.TotalSamples)
	assert.NotEmpty(t, insightLines)
}

func TestFeedbackJobExtractsReflections(t *testing.T) {
	cfg = config.Default()

	doc, _ := feedbackJob().build(testLogs(), time.Now())
	report, ok := doc.(*analyze.FeedbackReport)
	require.True(t, ok)
	require.Equal(t, 1, report.TotalEntries)
	require.NotNil(t, report.Entries[0].Energy)
	assert.Equal(t, 8, *report.Entries[0].Energy)
	assert.Equal(t, "2026-03-02", report.Entries[0].Date)
}
