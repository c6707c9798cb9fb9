package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskpulse/internal/health"
	"taskpulse/internal/state"
)

var healthVerbose bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Score how well the whole pipeline is doing",
	Long: `Combine automation reliability, artifact freshness and analytics depth
into a single 0-100 score, write it to health-score.json and print it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store := openRunLog()
		if store != nil {
			defer store.Close()
		}

		evaluator := &health.Evaluator{
			StateDir: cfg.Paths.StateDir,
			Cfg:      cfg.Health,
		}
		// A nil *Store must not become a non-nil RunCounter.
		if store != nil {
			evaluator.Runs = store
		}

		var report *health.Report
		err := recordRun(ctx, store, "health", func() error {
			report = evaluator.Evaluate(ctx)
			return state.Write(filepath.Join(cfg.Paths.StateDir, state.HealthFile), report)
		})
		if err != nil {
			fatalf("%v", err)
		}

		printHealth(report, healthVerbose)
	},
}

func printHealth(report *health.Report, verbose bool) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== System Health ==="))
	fmt.Printf("Overall: %s\n\n", scoreColor(report.OverallScore)(fmt.Sprintf("%d/100", report.OverallScore)))

	a := report.Components.Automation
	f := report.Components.DataFreshness
	n := report.Components.AnalyticsHealth
	fmt.Printf("  Automation:  %s\n", scoreColor(a.Score)(fmt.Sprintf("%d", a.Score)))
	fmt.Printf("  Freshness:   %s\n", scoreColor(f.Score)(fmt.Sprintf("%d", f.Score)))
	fmt.Printf("  Analytics:   %s\n", scoreColor(n.Score)(fmt.Sprintf("%d", n.Score)))

	if verbose {
		fmt.Println()
		fmt.Printf("  %s\n", gray(fmt.Sprintf("runs %d, successes %d, failures %d over %d days",
			a.Runs, a.Successes, a.Failures, a.WindowDays)))
		if f.AverageAgeHours != nil {
			fmt.Printf("  %s\n", gray(fmt.Sprintf("average artifact age %.1fh", *f.AverageAgeHours)))
		}
		names := make([]string, 0, len(n.Details))
		for name := range n.Details {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s\n", gray(fmt.Sprintf("%s: %d", name, n.Details[name])))
		}
	}

	if len(report.Insights) > 0 {
		fmt.Println()
		for _, line := range report.Insights {
			fmt.Printf("  - %s\n", line)
		}
	}
	fmt.Println()
}

func scoreColor(score int) func(a ...interface{}) string {
	switch {
	case score >= 75:
		return color.New(color.FgGreen).SprintFunc()
	case score >= 60:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func init() {
	healthCmd.Flags().BoolVarP(&healthVerbose, "verbose", "v", false, "show component detail")
	rootCmd.AddCommand(healthCmd)
}
