package worker

import (
	"context"
	"errors"
	"time"

	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/queue"
)

// Executor runs dequeued scrape messages and reconciles abandoned jobs.
type Executor interface {
	ExecuteMessage(ctx context.Context, msg queue.Message) error
	FailStuckJobs(ctx context.Context, threshold time.Duration) (int, error)
}

// Consumer pulls messages off the queue and feeds them to the pool.
type Consumer struct {
	pool     *Pool
	source   queue.Queue
	executor Executor
	config   Config
	logger   logger.Interface
}

// NewConsumer wires a queue to a pool of workers backed by executor.
func NewConsumer(cfg Config, source queue.Queue, executor Executor, log logger.Interface) (*Consumer, error) {
	pool, err := NewPool(cfg, executor.ExecuteMessage, log)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		pool:     pool,
		source:   source,
		executor: executor,
		config:   cfg,
		logger:   log.WithComponent("consumer"),
	}, nil
}

// Run consumes messages until the context is cancelled or the queue
// closes. Jobs abandoned in running state by a previous process are
// failed before consumption starts.
func (c *Consumer) Run(ctx context.Context) error {
	failed, err := c.executor.FailStuckJobs(ctx, c.config.StuckThreshold)
	if err != nil {
		return err
	}
	if failed > 0 {
		c.logger.Warn("reconciled stuck jobs at startup", "count", failed)
	}

	if err := c.pool.Start(); err != nil {
		return err
	}

	for {
		msg, err := c.source.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || errors.Is(err, context.Canceled) {
				break
			}
			c.logger.Error("dequeue failed", "error", err)
			continue
		}

		if err := c.pool.Submit(ctx, msg); err != nil {
			c.logger.Error("submit failed", "job_id", msg.JobID, "error", err)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), c.config.DrainTimeout)
	defer cancel()
	return c.pool.Stop(drainCtx)
}

// Stats exposes the underlying pool statistics.
func (c *Consumer) Stats() PoolStats {
	return c.pool.Stats()
}
