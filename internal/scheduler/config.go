package scheduler

import (
	"time"
)

// Config controls cleanup cadence and batch sizes.
type Config struct {
	RunInterval      time.Duration
	CleanupBatchSize int
	MaxBatchesPerRun int
}

func DefaultConfig() Config {
	return Config{
		RunInterval:      5 * time.Minute,
		CleanupBatchSize: 500,
		MaxBatchesPerRun: 20,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.CleanupBatchSize <= 0 {
		c.CleanupBatchSize = defaults.CleanupBatchSize
	}
	if c.MaxBatchesPerRun <= 0 {
		c.MaxBatchesPerRun = defaults.MaxBatchesPerRun
	}
	return c
}
