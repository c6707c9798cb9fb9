package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskpulse/internal/analyze"
	"taskpulse/internal/archive"
	"taskpulse/internal/record"
	"taskpulse/internal/runlog"
	"taskpulse/internal/state"
)

// profileJob binds one profiler to its artifact file and run-log command
// name. build must be a pure function of the loaded window so jobs can run
// concurrently; each writes a disjoint artifact.
type profileJob struct {
	command string
	title   string
	file    string
	build   func(logs []archive.DailyLog, now time.Time) (doc any, insights []string)
}

func durationJob() profileJob {
	return profileJob{
		command: "analyze-duration",
		title:   "Duration patterns",
		file:    state.DurationFile,
		build: func(logs []archive.DailyLog, now time.Time) (any, []string) {
			var samples []record.DurationSample
			for _, rec := range record.NormalizeAll(logs) {
				if !rec.Completed {
					continue
				}
				if s, ok := rec.DurationSample(); ok {
					samples = append(samples, s)
				}
			}
			report := analyze.AnalyzeDurations(samples, cfg.Duration)
			report.GeneratedAt = state.Timestamp(now)
			report.AnalysisPeriodDays = cfg.WindowDays
			return report, report.Insights
		},
	}
}

func rhythmJob() profileJob {
	return profileJob{
		command: "analyze-rhythm",
		title:   "Daily rhythm",
		file:    state.RhythmFile,
		build: func(logs []archive.DailyLog, now time.Time) (any, []string) {
			report := analyze.AnalyzeRhythm(completedRecords(logs), cfg.Rhythm)
			report.GeneratedAt = state.Timestamp(now)
			report.AnalysisPeriodDays = cfg.WindowDays
			return report, report.Insights
		},
	}
}

func affinityJob() profileJob {
	return profileJob{
		command: "analyze-categories",
		title:   "Category affinity",
		file:    state.AffinityFile,
		build: func(logs []archive.DailyLog, now time.Time) (any, []string) {
			report := analyze.AnalyzeAffinity(completedRecords(logs), cfg.Affinity)
			report.GeneratedAt = state.Timestamp(now)
			report.AnalysisPeriodDays = cfg.WindowDays
			return report, report.Insights
		},
	}
}

func feedbackJob() profileJob {
	return profileJob{
		command: "analyze-feedback",
		title:   "Feedback history",
		file:    state.FeedbackFile,
		build: func(logs []archive.DailyLog, now time.Time) (any, []string) {
			// The window loads newest-first; trend analysis wants
			// ascending dates.
			var entries []analyze.FeedbackEntry
			for i := len(logs) - 1; i >= 0; i-- {
				entry, ok := analyze.ParseReflection(logs[i].Date.Format("2006-01-02"), logs[i].Reflection)
				if !ok {
					continue
				}
				entries = append(entries, entry)
			}
			report := analyze.AnalyzeFeedback(entries)
			report.GeneratedAt = state.Timestamp(now)
			report.AnalysisPeriodDays = cfg.WindowDays
			return report, report.Insights
		},
	}
}

func allJobs() []profileJob {
	return []profileJob{durationJob(), rhythmJob(), affinityJob(), feedbackJob()}
}

func completedRecords(logs []archive.DailyLog) []record.TaskRecord {
	var out []record.TaskRecord
	for _, rec := range record.NormalizeAll(logs) {
		if rec.Completed {
			out = append(out, rec)
		}
	}
	return out
}

// runJobs loads the archive window once and runs every job against it.
// Jobs write disjoint artifacts, so they run concurrently; insights are
// printed after all jobs finish to keep output readable.
func runJobs(jobs []profileJob) {
	store := openRunLog()
	if store != nil {
		defer store.Close()
	}
	if err := executeJobs(context.Background(), store, jobs); err != nil {
		fatalf("%v", err)
	}
}

// executeJobs is the shared pass used by the analyze commands and the
// scheduler.
func executeJobs(ctx context.Context, store *runlog.Store, jobs []profileJob) error {
	now := time.Now()
	logs, err := archive.LoadWindow(cfg.Paths.ArchiveDir, cfg.WindowDays, now)
	if err != nil {
		return err
	}

	insights := make([][]string, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			return recordRun(ctx, store, job.command, func() error {
				doc, lines := job.build(logs, now)
				if err := state.Write(filepath.Join(cfg.Paths.StateDir, job.file), doc); err != nil {
					return err
				}
				insights[i] = lines
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	for i, job := range jobs {
		fmt.Printf("%s %s\n", cyan(job.title), gray("→ "+job.file))
		if len(insights[i]) == 0 {
			fmt.Printf("  %s\n", gray("no insights"))
		}
		for _, line := range insights[i] {
			fmt.Printf("  - %s\n", line)
		}
		fmt.Println()
	}
	return nil
}

// recordRun wraps fn in the run log when one is available.
func recordRun(ctx context.Context, store *runlog.Store, command string, fn func() error) error {
	if store == nil {
		return fn()
	}
	return store.Record(ctx, command, fn)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rebuild profile artifacts from the task archive",
}

var analyzeDurationCmd = &cobra.Command{
	Use:   "duration",
	Short: "Profile how long tasks actually take, by category",
	Run: func(cmd *cobra.Command, args []string) {
		runJobs([]profileJob{durationJob()})
	},
}

var analyzeRhythmCmd = &cobra.Command{
	Use:   "rhythm",
	Short: "Profile when during the day tasks get completed",
	Run: func(cmd *cobra.Command, args []string) {
		runJobs([]profileJob{rhythmJob()})
	},
}

var analyzeCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Profile which categories land on which weekdays",
	Run: func(cmd *cobra.Command, args []string) {
		runJobs([]profileJob{affinityJob()})
	},
}

var analyzeFeedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Extract mood, energy and satisfaction from daily reflections",
	Run: func(cmd *cobra.Command, args []string) {
		runJobs([]profileJob{feedbackJob()})
	},
}

var analyzeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every profiler over one archive window",
	Run: func(cmd *cobra.Command, args []string) {
		runJobs(allJobs())
	},
}

func init() {
	analyzeCmd.AddCommand(analyzeDurationCmd)
	analyzeCmd.AddCommand(analyzeRhythmCmd)
	analyzeCmd.AddCommand(analyzeCategoriesCmd)
	analyzeCmd.AddCommand(analyzeFeedbackCmd)
	analyzeCmd.AddCommand(analyzeAllCmd)
	rootCmd.AddCommand(analyzeCmd)
}
