// Package scheduler runs periodic rescrape passes over the stored
// catalog, re-enqueuing whatever has gone stale.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shelfwise/crawler/internal/catalog"
	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/logger"
)

const (
	// DefaultSchedule runs the rescrape pass hourly.
	DefaultSchedule = "@hourly"

	// maxDetailRescrapesPerPass bounds how many stale product details a
	// single pass may enqueue, so a cold catalog does not flood the queue.
	maxDetailRescrapesPerPass = 50

	productScanPageSize = 200
)

// JobCreator creates and enqueues scrape jobs. Satisfied by the
// orchestrator service.
type JobCreator interface {
	CreateJob(ctx context.Context, targetURL string, kind domain.TargetKind, targetID *string) (*domain.ScrapeJob, error)
}

// Config holds rescraper settings.
type Config struct {
	// Schedule is a cron expression for the rescrape pass.
	Schedule string

	// TTL is how long scraped data stays fresh.
	TTL time.Duration
}

// Rescraper periodically re-enqueues stale catalog entries.
type Rescraper struct {
	config      Config
	navigations database.NavigationStore
	products    database.ProductStore
	jobs        JobCreator
	cron        *cron.Cron
	logger      logger.Interface

	mu      sync.Mutex
	running bool
}

// NewRescraper creates a rescraper. Zero-valued config fields fall back
// to DefaultSchedule and catalog.DefaultTTL.
func NewRescraper(
	cfg Config,
	navigations database.NavigationStore,
	products database.ProductStore,
	jobs JobCreator,
	log logger.Interface,
) *Rescraper {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.TTL <= 0 {
		cfg.TTL = catalog.DefaultTTL
	}

	return &Rescraper{
		config:      cfg,
		navigations: navigations,
		products:    products,
		jobs:        jobs,
		cron:        cron.New(),
		logger:      log.WithComponent("rescraper"),
	}
}

// Start registers the cron entry and begins the schedule.
func (r *Rescraper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("rescraper is already running")
	}

	_, err := r.cron.AddFunc(r.config.Schedule, func() {
		if passErr := r.RunPass(ctx); passErr != nil {
			r.logger.Error("rescrape pass failed", "error", passErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid rescrape schedule %q: %w", r.config.Schedule, err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("rescraper started", "schedule", r.config.Schedule, "ttl", r.config.TTL)
	return nil
}

// Stop halts the schedule and waits for an in-flight pass to finish.
func (r *Rescraper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.running = false
	r.logger.Info("rescraper stopped")
}

// RunPass executes one rescrape pass: if any navigation heading is
// stale a full navigation job is enqueued, and stale product details
// are re-enqueued up to the per-pass cap.
func (r *Rescraper) RunPass(ctx context.Context) error {
	enqueued := 0

	navs, err := r.navigations.List(ctx)
	if err != nil {
		return fmt.Errorf("list navigations: %w", err)
	}

	for _, nav := range navs {
		if !catalog.ShouldRescrape(nav.LastScrapedAt, r.config.TTL) {
			continue
		}
		if nav.SourceURL == nil || *nav.SourceURL == "" {
			continue
		}
		if _, jobErr := r.jobs.CreateJob(ctx, *nav.SourceURL, domain.TargetNavigation, nil); jobErr != nil {
			r.logger.Error("failed to enqueue navigation rescrape", "navigation_id", nav.ID, "error", jobErr)
			continue
		}
		enqueued++
		// One navigation job refreshes every heading.
		break
	}

	detailJobs, err := r.enqueueStaleDetails(ctx)
	if err != nil {
		return err
	}
	enqueued += detailJobs

	r.logger.Info("rescrape pass finished", "enqueued", enqueued)
	return nil
}

func (r *Rescraper) enqueueStaleDetails(ctx context.Context) (int, error) {
	enqueued := 0
	offset := 0

	for enqueued < maxDetailRescrapesPerPass {
		page, _, err := r.products.List(ctx, nil, productScanPageSize, offset)
		if err != nil {
			return enqueued, fmt.Errorf("list products: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, p := range page {
			if enqueued >= maxDetailRescrapesPerPass {
				break
			}
			if !catalog.ShouldRescrape(p.LastScrapedAt, r.config.TTL) {
				continue
			}
			id := p.ID
			if _, jobErr := r.jobs.CreateJob(ctx, p.SourceURL, domain.TargetProductDetail, &id); jobErr != nil {
				r.logger.Error("failed to enqueue detail rescrape", "product_id", p.ID, "error", jobErr)
				continue
			}
			enqueued++
		}

		offset += productScanPageSize
	}

	return enqueued, nil
}
