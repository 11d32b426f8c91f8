package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/queue"
	"github.com/shelfwise/crawler/internal/worker"
)

const poolTestDrain = 2 * time.Second

func testConfig() worker.Config {
	cfg := worker.DefaultConfig()
	cfg.PoolSize = 2
	cfg.DrainTimeout = poolTestDrain
	return cfg
}

func testMessage(jobID string) queue.Message {
	return queue.Message{
		JobID:      jobID,
		TargetURL:  "https://example.com/catalogue",
		TargetKind: domain.TargetNavigation,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*worker.Config)
		wantErr bool
	}{
		{"defaults", func(*worker.Config) {}, false},
		{"zero pool size", func(c *worker.Config) { c.PoolSize = 0 }, true},
		{"oversized pool", func(c *worker.Config) { c.PoolSize = worker.MaxPoolSize + 1 }, true},
		{"zero drain timeout", func(c *worker.Config) { c.DrainTimeout = 0 }, true},
		{"negative job timeout", func(c *worker.Config) { c.JobTimeout = -time.Second }, true},
		{"zero stuck threshold", func(c *worker.Config) { c.StuckThreshold = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := worker.DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestNewPool_Invalid(t *testing.T) {
	t.Parallel()

	handler := func(context.Context, queue.Message) error { return nil }

	if _, err := worker.NewPool(worker.Config{}, handler, logger.NewNoOp()); err == nil {
		t.Error("expected error for invalid config, got nil")
	}

	if _, err := worker.NewPool(worker.DefaultConfig(), nil, logger.NewNoOp()); err == nil {
		t.Error("expected error for nil handler, got nil")
	}
}

func TestPool_StartStop(t *testing.T) {
	t.Parallel()

	handler := func(context.Context, queue.Message) error { return nil }

	pool, err := worker.NewPool(testConfig(), handler, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	if pool.State() != worker.PoolStateStopped {
		t.Errorf("initial state = %s, want stopped", pool.State())
	}

	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after Start")
	}

	if err := pool.Start(); err == nil {
		t.Error("second Start should fail")
	}

	if err := pool.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if pool.State() != worker.PoolStateStopped {
		t.Errorf("state after Stop = %s, want stopped", pool.State())
	}

	if err := pool.Stop(context.Background()); err == nil {
		t.Error("Stop on a stopped pool should fail")
	}
}

func TestPool_SubmitRunsHandler(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []string

	handler := func(_ context.Context, msg queue.Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg.JobID)
		if msg.JobID == "job-bad" {
			return errors.New("scrape failed")
		}
		return nil
	}

	pool, err := worker.NewPool(testConfig(), handler, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	ctx := context.Background()

	if err := pool.Submit(ctx, testMessage("job-early")); err == nil {
		t.Error("Submit before Start should fail")
	}

	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, id := range []string{"job-1", "job-2", "job-bad"} {
		if err := pool.Submit(ctx, testMessage(id)); err != nil {
			t.Fatalf("Submit(%s) error = %v", id, err)
		}
	}

	// Stop waits for in-flight handlers, so counters are settled after it.
	if err := pool.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	mu.Lock()
	handled := len(seen)
	mu.Unlock()
	if handled != 3 {
		t.Errorf("handler ran %d times, want 3", handled)
	}

	stats := pool.Stats()
	if stats.JobsProcessed != 3 {
		t.Errorf("JobsProcessed = %d, want 3", stats.JobsProcessed)
	}
	if stats.JobsSucceeded != 2 {
		t.Errorf("JobsSucceeded = %d, want 2", stats.JobsSucceeded)
	}
	if stats.JobsFailed != 1 {
		t.Errorf("JobsFailed = %d, want 1", stats.JobsFailed)
	}
}

func TestPool_SubmitDetachesJobContext(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	jobCtxErr := make(chan error, 1)

	handler := func(jobCtx context.Context, _ queue.Message) error {
		close(started)
		<-release
		jobCtxErr <- jobCtx.Err()
		return nil
	}

	pool, err := worker.NewPool(testConfig(), handler, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	submitCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Submit(submitCtx, testMessage("job-mid-drain")); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Cancel the submit context while the job is running, as a consumer
	// shutdown would, then let the job finish.
	<-started
	cancel()
	close(release)

	select {
	case err := <-jobCtxErr:
		if err != nil {
			t.Errorf("job context cancelled with the submit context: %v", err)
		}
	case <-time.After(poolTestDrain):
		t.Fatal("handler did not finish")
	}

	if err := pool.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if stats := pool.Stats(); stats.JobsSucceeded != 1 {
		t.Errorf("JobsSucceeded = %d, want 1", stats.JobsSucceeded)
	}
}

func TestPoolStats_SuccessRate(t *testing.T) {
	t.Parallel()

	empty := worker.PoolStats{}
	if rate := empty.SuccessRate(); rate != 0 {
		t.Errorf("SuccessRate() with no jobs = %f, want 0", rate)
	}

	stats := worker.PoolStats{JobsProcessed: 4, JobsSucceeded: 3}
	if rate := stats.SuccessRate(); rate != 75 {
		t.Errorf("SuccessRate() = %f, want 75", rate)
	}
}

func TestPoolState_String(t *testing.T) {
	t.Parallel()

	cases := map[worker.PoolState]string{
		worker.PoolStateStopped:  "stopped",
		worker.PoolStateRunning:  "running",
		worker.PoolStateDraining: "draining",
		worker.PoolState(99):     "unknown",
	}

	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("PoolState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
