package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"taskpulse/internal/health"
	"taskpulse/internal/state"
)

var scheduleSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Keep the profiles fresh on a cron schedule",
	Long: `Run every profiler plus the health score on a cron expression, in
process, until interrupted. Each pass is recorded in the run log so the
health score can see automation reliability.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := cron.New()
		if _, err := c.AddFunc(scheduleSpec, scheduledPass); err != nil {
			fatalf("invalid cron expression %q: %v", scheduleSpec, err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("%s\n", cyan(fmt.Sprintf("Scheduling analysis on %q. Ctrl-C to stop.", scheduleSpec)))

		c.Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		<-c.Stop().Done()
		fmt.Println("Scheduler stopped.")
	},
}

// scheduledPass is one automation cycle. Failures are warned and recorded
// in the run log; the scheduler itself keeps going.
func scheduledPass() {
	ctx := context.Background()

	store := openRunLog()
	if store != nil {
		defer store.Close()
	}

	if err := executeJobs(ctx, store, allJobs()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: scheduled analysis failed: %v\n", err)
	}

	evaluator := &health.Evaluator{
		StateDir: cfg.Paths.StateDir,
		Cfg:      cfg.Health,
	}
	if store != nil {
		evaluator.Runs = store
	}
	err := recordRun(ctx, store, "health", func() error {
		report := evaluator.Evaluate(ctx)
		return state.Write(filepath.Join(cfg.Paths.StateDir, state.HealthFile), report)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: scheduled health score failed: %v\n", err)
	}
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "0 7 * * *", "cron expression for analysis passes")
	rootCmd.AddCommand(scheduleCmd)
}
