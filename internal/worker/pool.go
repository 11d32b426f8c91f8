package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/queue"
)

// PoolState represents the current state of the pool.
type PoolState int32

const (
	// PoolStateStopped means the pool is not running.
	PoolStateStopped PoolState = iota

	// PoolStateRunning means the pool is actively processing messages.
	PoolStateRunning

	// PoolStateDraining means the pool is shutting down gracefully.
	PoolStateDraining

	// poolPercentageMultiplier converts ratio to percentage.
	poolPercentageMultiplier = 100
)

// String returns the string representation of a pool state.
func (s PoolState) String() string {
	switch s {
	case PoolStateStopped:
		return "stopped"
	case PoolStateRunning:
		return "running"
	case PoolStateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// MessageHandler processes one dequeued scrape message.
type MessageHandler func(ctx context.Context, msg queue.Message) error

// Pool manages a bounded set of workers processing scrape messages.
type Pool struct {
	config  Config
	handler MessageHandler
	logger  logger.Interface
	state   atomic.Int32
	sem     chan struct{} // bounds concurrency to PoolSize
	wg      sync.WaitGroup
	stopCh  chan struct{}

	totalProcessed atomic.Int64
	totalSucceeded atomic.Int64
	totalFailed    atomic.Int64
}

// NewPool creates a worker pool.
func NewPool(cfg Config, handler MessageHandler, log logger.Interface) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	p := &Pool{
		config:  cfg,
		handler: handler,
		logger:  log.WithComponent("worker"),
		sem:     make(chan struct{}, cfg.PoolSize),
		stopCh:  make(chan struct{}),
	}
	p.state.Store(int32(PoolStateStopped))
	return p, nil
}

// Start marks the pool as running.
func (p *Pool) Start() error {
	if !p.state.CompareAndSwap(int32(PoolStateStopped), int32(PoolStateRunning)) {
		return errors.New("pool is already running")
	}

	p.logger.Info("worker pool started", "pool_size", p.config.PoolSize)
	return nil
}

// Stop drains the pool, waiting for in-flight jobs up to the drain timeout.
func (p *Pool) Stop(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(PoolStateRunning), int32(PoolStateDraining)) {
		return errors.New("pool is not running")
	}

	p.logger.Info("worker pool draining")
	close(p.stopCh)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully")
	case <-ctx.Done():
		p.logger.Warn("worker pool stop cancelled")
	case <-time.After(p.config.DrainTimeout):
		p.logger.Warn("worker pool drain timeout exceeded")
	}

	p.state.Store(int32(PoolStateStopped))
	return nil
}

// Submit hands a message to a worker. Blocks while all workers are busy.
func (p *Pool) Submit(ctx context.Context, msg queue.Message) error {
	if p.State() != PoolStateRunning {
		return errors.New("pool is not running")
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		return errors.New("pool is stopping")
	}

	p.wg.Add(1)

	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()

		// The job context is detached from the submit context so an
		// in-flight job finishes during drain instead of being cancelled
		// with the consumer. JobTimeout still bounds it.
		jobCtx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
		defer cancel()

		start := time.Now()
		err := p.handler(jobCtx, msg)
		duration := time.Since(start)

		p.totalProcessed.Add(1)
		if err != nil {
			p.totalFailed.Add(1)
			p.logger.Error("message processing failed",
				"job_id", msg.JobID,
				"kind", msg.TargetKind,
				"duration", duration,
				"error", err,
			)
			return
		}

		p.totalSucceeded.Add(1)
		p.logger.Info("message processed",
			"job_id", msg.JobID,
			"kind", msg.TargetKind,
			"duration", duration,
		)
	}()

	return nil
}

// State returns the current pool state.
func (p *Pool) State() PoolState {
	return PoolState(p.state.Load())
}

// IsRunning returns true if the pool is running.
func (p *Pool) IsRunning() bool {
	return p.State() == PoolStateRunning
}

// Size returns the pool size.
func (p *Pool) Size() int {
	return p.config.PoolSize
}

// BusyCount returns the number of busy workers.
func (p *Pool) BusyCount() int {
	return len(p.sem)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		State:         p.State(),
		PoolSize:      p.config.PoolSize,
		BusyWorkers:   p.BusyCount(),
		JobsProcessed: p.totalProcessed.Load(),
		JobsSucceeded: p.totalSucceeded.Load(),
		JobsFailed:    p.totalFailed.Load(),
	}
}

// PoolStats holds statistics for the pool.
type PoolStats struct {
	State         PoolState
	PoolSize      int
	BusyWorkers   int
	JobsProcessed int64
	JobsSucceeded int64
	JobsFailed    int64
}

// SuccessRate returns the success rate as a percentage.
func (s PoolStats) SuccessRate() float64 {
	if s.JobsProcessed == 0 {
		return 0
	}
	return float64(s.JobsSucceeded) / float64(s.JobsProcessed) * poolPercentageMultiplier
}
