package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"taskpulse/internal/analyze"
	"taskpulse/internal/archive"
	"taskpulse/internal/state"
	"taskpulse/internal/suggest"
)

var suggestLimit int

// candidatesDoc is the shape of tomorrow.json. The planner that writes it
// lives outside this tool.
type candidatesDoc struct {
	GeneratedAt string              `json:"generated_at"`
	Candidates  []suggest.Candidate `json:"tomorrow_candidates"`
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Rank today's candidate tasks using the learned profiles",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		now := time.Now()

		store := openRunLog()
		if store != nil {
			defer store.Close()
		}

		scfg := cfg.Suggest
		if suggestLimit > 0 {
			scfg.Limit = suggestLimit
		}

		err := recordRun(ctx, store, "suggest", func() error {
			var doc candidatesDoc
			if err := state.Read(filepath.Join(cfg.Paths.StateDir, state.CandidatesFile), &doc); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: no candidate list: %v\n", err)
			}

			sctx := suggest.Context{Weekday: now.Weekday().String()}

			// Profiles are optional. A missing or unreadable artifact
			// leaves its signal neutral.
			var rhythm analyze.RhythmReport
			if err := state.Read(filepath.Join(cfg.Paths.StateDir, state.RhythmFile), &rhythm); err == nil {
				sctx.Rhythm = &rhythm
			}
			var affinity analyze.AffinityReport
			if err := state.Read(filepath.Join(cfg.Paths.StateDir, state.AffinityFile), &affinity); err == nil {
				sctx.Affinity = &affinity
			}

			existing, energy := todayContext(now)
			sctx.Energy = energy

			res := suggest.Rank(doc.Candidates, existing, sctx, scfg)
			res.GeneratedAt = state.Timestamp(now)
			suggest.Render(os.Stdout, res)
			return nil
		})
		if err != nil {
			fatalf("%v", err)
		}
	},
}

// todayContext pulls the already-planned task titles and today's reported
// energy out of today's daily log, if one exists.
func todayContext(now time.Time) ([]string, *int) {
	logs, err := archive.LoadWindow(cfg.Paths.ArchiveDir, 1, now)
	if err != nil || len(logs) == 0 {
		return nil, nil
	}
	today := logs[0]

	var existing []string
	for _, raw := range today.AllTasks() {
		existing = append(existing, raw.Title)
	}

	var energy *int
	if entry, ok := analyze.ParseReflection(today.Date.Format("2006-01-02"), today.Reflection); ok {
		energy = entry.Energy
	}
	return existing, energy
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "maximum suggestions (default from config)")
	rootCmd.AddCommand(suggestCmd)
}
