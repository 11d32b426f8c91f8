// Package worker provides a bounded pool that consumes scrape messages
// from the queue and executes them through the orchestrator.
package worker

import (
	"errors"
	"time"
)

const (
	// DefaultPoolSize is the default number of concurrent workers.
	DefaultPoolSize = 4

	// DefaultDrainTimeout is the default timeout for graceful shutdown.
	DefaultDrainTimeout = 30 * time.Second

	// DefaultJobTimeout is the default timeout for a single scrape job.
	DefaultJobTimeout = 10 * time.Minute

	// DefaultStuckThreshold is how long a job may sit in running state
	// before a restarting worker marks it failed.
	DefaultStuckThreshold = 30 * time.Minute

	// MinPoolSize is the minimum allowed pool size.
	MinPoolSize = 1

	// MaxPoolSize is the maximum allowed pool size.
	MaxPoolSize = 64
)

// Config holds configuration for the worker pool.
type Config struct {
	// PoolSize is the number of concurrent workers.
	PoolSize int

	// DrainTimeout is the maximum time to wait for in-flight jobs
	// during shutdown.
	DrainTimeout time.Duration

	// JobTimeout bounds the execution of a single scrape job.
	JobTimeout time.Duration

	// StuckThreshold is the running-state age after which a job is
	// considered abandoned by a dead worker.
	StuckThreshold time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PoolSize:       DefaultPoolSize,
		DrainTimeout:   DefaultDrainTimeout,
		JobTimeout:     DefaultJobTimeout,
		StuckThreshold: DefaultStuckThreshold,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PoolSize < MinPoolSize {
		return errors.New("pool size must be at least 1")
	}
	if c.PoolSize > MaxPoolSize {
		return errors.New("pool size cannot exceed 64")
	}
	if c.DrainTimeout <= 0 {
		return errors.New("drain timeout must be positive")
	}
	if c.JobTimeout <= 0 {
		return errors.New("job timeout must be positive")
	}
	if c.StuckThreshold <= 0 {
		return errors.New("stuck threshold must be positive")
	}
	return nil
}
