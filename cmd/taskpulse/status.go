package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskpulse/internal/runlog"
	"taskpulse/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show artifact freshness and recent automation runs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		now := time.Now()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== taskpulse Status ==="))

		fmt.Printf("%s\n", yellow("Profile Artifacts:"))
		artifacts := append(append([]string{}, state.ProfileFiles...), state.HealthFile, state.CandidatesFile)
		for _, name := range artifacts {
			age, ok := state.AgeHours(filepath.Join(cfg.Paths.StateDir, name), now)
			if !ok {
				fmt.Printf("  %-24s %s\n", name, gray("missing"))
				continue
			}
			ageText := fmt.Sprintf("%.1fh old", age)
			switch {
			case age <= 24:
				fmt.Printf("  %-24s %s\n", name, green(ageText))
			case age <= 48:
				fmt.Printf("  %-24s %s\n", name, yellow(ageText))
			default:
				fmt.Printf("  %-24s %s\n", name, red(ageText))
			}
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("Recent Runs:"))
		store := openRunLog()
		if store == nil {
			fmt.Printf("  %s\n\n", gray("run log unavailable"))
			return
		}
		defer store.Close()

		runs, err := store.Recent(ctx, 10)
		if err != nil {
			fmt.Printf("  %s\n\n", red(fmt.Sprintf("failed to read run log: %v", err)))
			return
		}
		if len(runs) == 0 {
			fmt.Printf("  %s\n", gray("no runs recorded"))
		}
		for _, run := range runs {
			icon := green("✓")
			if run.Status != runlog.StatusOK {
				icon = red("✗")
			}
			line := fmt.Sprintf("%s %-18s %s", icon, run.Command, run.FinishedAt.Local().Format("2006-01-02 15:04"))
			if run.Detail != "" {
				line += " " + gray(run.Detail)
			}
			fmt.Printf("  %s\n", line)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
