package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskpulse/internal/config"
	"taskpulse/internal/runlog"
)

var (
	configPath  string
	archiveFlag string
	stateFlag   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "Personal task history analytics and daily suggestions",
	Long: `taskpulse mines a date-addressed task archive into statistical profiles
(durations, daily rhythm, category affinity, subjective feedback), scores
the health of the whole pipeline, and suggests what to work on today.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if archiveFlag != "" {
			loaded.Paths.ArchiveDir = archiveFlag
		}
		if stateFlag != "" {
			loaded.Paths.StateDir = stateFlag
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to taskpulse.yaml (optional)")
	rootCmd.PersistentFlags().StringVar(&archiveFlag, "archive", "", "override the task archive directory")
	rootCmd.PersistentFlags().StringVar(&stateFlag, "state", "", "override the state directory")
}

// openRunLog opens the automation run log. A broken run log never blocks a
// command; callers get nil and the run simply goes unrecorded.
func openRunLog() *runlog.Store {
	store, err := runlog.Open(cfg.Paths.RunLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run log unavailable: %v\n", err)
		return nil
	}
	return store
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
