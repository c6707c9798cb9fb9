// Package config holds every tunable the analyzers and the scorer accept.
//
// All thresholds live in one explicit structure passed into each call site
// instead of being scattered as package-level constants. Defaults match the
// documented behavior of the analytics pipeline; a YAML file and a few
// TASKPULSE_* environment variables can override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths locates the archive and the generated artifacts.
type Paths struct {
	// ArchiveDir contains one task-entry-YYYY-MM-DD.json per calendar day.
	// This is the only input the engine reads. Default: "cortex/state".
	ArchiveDir string `yaml:"archive_dir"`

	// StateDir receives the generated profile artifacts
	// (duration-patterns.json, rhythm-patterns.json, category-heatmap.json,
	// feedback-history.json, health-score.json) and holds tomorrow.json.
	// Default: "cortex/state".
	StateDir string `yaml:"state_dir"`

	// RunLogPath is the sqlite database recording automation runs.
	// Default: "cortex/state/runlog.db".
	RunLogPath string `yaml:"runlog_path"`
}

// Duration configures the duration profiler.
type Duration struct {
	// MinConfidence filters out duration samples whose confidence tier is
	// below this value before any statistics are computed.
	// Default: 0.7 (explicit and timerange-derived samples pass).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinSamples is the minimum number of accepted samples a category needs
	// to get its own profile. The overall profile ignores this gate.
	// Default: 3.
	MinSamples int `yaml:"min_samples"`
}

// Rhythm configures the rhythm profiler.
type Rhythm struct {
	// MinTasks is the minimum number of timestamped completed tasks required
	// to classify a chronotype. Below it the classification is "unknown".
	// Default: 10.
	MinTasks int `yaml:"min_tasks"`

	// PeakWindowHours is the width of the contiguous peak window, clipped at
	// the day boundary. Default: 3.
	PeakWindowHours int `yaml:"peak_window_hours"`
}

// Affinity configures the category-weekday affinity profiler.
type Affinity struct {
	// DominanceThreshold is the share of a weekday's total a category must
	// reach to be listed as dominant. Default: 0.3.
	DominanceThreshold float64 `yaml:"dominance_threshold"`

	// MinDayTasks is the minimum per-weekday task count for a weekday to be
	// mentioned in dominance insights. Default: 5.
	MinDayTasks int `yaml:"min_day_tasks"`
}

// Suggest configures the adaptive suggestion scorer.
type Suggest struct {
	// Limit is the maximum number of suggestions returned. Default: 3.
	Limit int `yaml:"limit"`

	// PriorityWeight, RhythmWeight and CategoryWeight combine the three
	// score components. They must sum to 1.0.
	// Defaults: 0.50 / 0.25 / 0.25.
	PriorityWeight float64 `yaml:"priority_weight"`
	RhythmWeight   float64 `yaml:"rhythm_weight"`
	CategoryWeight float64 `yaml:"category_weight"`

	// HeavyTaskMinutes is the estimated duration at or above which a task is
	// considered heavy for rhythm matching. Default: 45.
	HeavyTaskMinutes int `yaml:"heavy_task_minutes"`
}

// Health configures the health score aggregator.
type Health struct {
	// WindowDays is the trailing window for automation reliability.
	// Default: 7.
	WindowDays int `yaml:"window_days"`

	// AutomationWeight, FreshnessWeight and AnalyticsWeight combine the
	// three component scores into the overall score. They must sum to 1.0.
	// Defaults: 0.4 / 0.3 / 0.3.
	AutomationWeight float64 `yaml:"automation_weight"`
	FreshnessWeight  float64 `yaml:"freshness_weight"`
	AnalyticsWeight  float64 `yaml:"analytics_weight"`
}

// Config is the full configuration for one invocation.
type Config struct {
	// WindowDays is the trailing window of daily logs every profiler reads.
	// Default: 30.
	WindowDays int `yaml:"window_days"`

	Paths    Paths    `yaml:"paths"`
	Duration Duration `yaml:"duration"`
	Rhythm   Rhythm   `yaml:"rhythm"`
	Affinity Affinity `yaml:"affinity"`
	Suggest  Suggest  `yaml:"suggest"`
	Health   Health   `yaml:"health"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		WindowDays: 30,
		Paths: Paths{
			ArchiveDir: "cortex/state",
			StateDir:   "cortex/state",
			RunLogPath: filepath.Join("cortex", "state", "runlog.db"),
		},
		Duration: Duration{
			MinConfidence: 0.7,
			MinSamples:    3,
		},
		Rhythm: Rhythm{
			MinTasks:        10,
			PeakWindowHours: 3,
		},
		Affinity: Affinity{
			DominanceThreshold: 0.3,
			MinDayTasks:        5,
		},
		Suggest: Suggest{
			Limit:            3,
			PriorityWeight:   0.50,
			RhythmWeight:     0.25,
			CategoryWeight:   0.25,
			HeavyTaskMinutes: 45,
		},
		Health: Health{
			WindowDays:       7,
			AutomationWeight: 0.4,
			FreshnessWeight:  0.3,
			AnalyticsWeight:  0.3,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and environment
// overrides, in that order. An empty path skips the file entirely; a named
// file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TASKPULSE_ARCHIVE_DIR"); v != "" {
		c.Paths.ArchiveDir = v
	}
	if v := os.Getenv("TASKPULSE_STATE_DIR"); v != "" {
		c.Paths.StateDir = v
	}
	if v := os.Getenv("TASKPULSE_RUNLOG"); v != "" {
		c.Paths.RunLogPath = v
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.WindowDays < 1 {
		return fmt.Errorf("window_days must be >= 1, got %d", c.WindowDays)
	}
	if c.Duration.MinConfidence < 0 || c.Duration.MinConfidence > 1 {
		return fmt.Errorf("duration.min_confidence must be in [0,1], got %g", c.Duration.MinConfidence)
	}
	if c.Duration.MinSamples < 1 {
		return fmt.Errorf("duration.min_samples must be >= 1, got %d", c.Duration.MinSamples)
	}
	if c.Rhythm.PeakWindowHours < 1 || c.Rhythm.PeakWindowHours > 24 {
		return fmt.Errorf("rhythm.peak_window_hours must be in [1,24], got %d", c.Rhythm.PeakWindowHours)
	}
	if c.Affinity.DominanceThreshold <= 0 || c.Affinity.DominanceThreshold > 1 {
		return fmt.Errorf("affinity.dominance_threshold must be in (0,1], got %g", c.Affinity.DominanceThreshold)
	}
	if c.Suggest.Limit < 1 {
		return fmt.Errorf("suggest.limit must be >= 1, got %d", c.Suggest.Limit)
	}
	if !sumsToOne(c.Suggest.PriorityWeight, c.Suggest.RhythmWeight, c.Suggest.CategoryWeight) {
		return fmt.Errorf("suggest weights must sum to 1.0, got %g/%g/%g",
			c.Suggest.PriorityWeight, c.Suggest.RhythmWeight, c.Suggest.CategoryWeight)
	}
	if c.Health.WindowDays < 1 {
		return fmt.Errorf("health.window_days must be >= 1, got %d", c.Health.WindowDays)
	}
	if !sumsToOne(c.Health.AutomationWeight, c.Health.FreshnessWeight, c.Health.AnalyticsWeight) {
		return fmt.Errorf("health weights must sum to 1.0, got %g/%g/%g",
			c.Health.AutomationWeight, c.Health.FreshnessWeight, c.Health.AnalyticsWeight)
	}
	return nil
}

func sumsToOne(weights ...float64) bool {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return sum > 0.999 && sum < 1.001
}
