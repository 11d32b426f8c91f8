// Package orchestrator drives the scrape job lifecycle: it creates job
// records, advances them through the status machine, and runs the
// extraction and synchronization pipeline for each target kind.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/crawler/internal/catalog"
	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/queue"
	"github.com/shelfwise/crawler/internal/scrape"
)

// ErrInvalidTransition is returned when Advance would move a job backward
// or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid job status transition")

// ProductIndex receives synced products for full-text search. Indexing is
// best effort; failures are logged, never fatal to the scrape.
type ProductIndex interface {
	IndexProducts(ctx context.Context, products []*domain.Product) error
}

// Service orchestrates scrape jobs end to end.
type Service struct {
	jobs      database.JobStore
	products  database.ProductStore
	taskQueue queue.Queue
	extractor *scrape.Extractor
	navSync   *catalog.NavigationSynchronizer
	catSync   *catalog.CategorySynchronizer
	prodSync  *catalog.ProductSynchronizer
	index     ProductIndex
	baseURL   string
	logger    logger.Interface
}

// Params holds the dependencies for creating a Service. Index is optional.
type Params struct {
	Jobs      database.JobStore
	Products  database.ProductStore
	TaskQueue queue.Queue
	Extractor *scrape.Extractor
	NavSync   *catalog.NavigationSynchronizer
	CatSync   *catalog.CategorySynchronizer
	ProdSync  *catalog.ProductSynchronizer
	Index     ProductIndex
	BaseURL   string
	Logger    logger.Interface
}

// NewService creates a job orchestrator.
func NewService(p Params) *Service {
	return &Service{
		jobs:      p.Jobs,
		products:  p.Products,
		taskQueue: p.TaskQueue,
		extractor: p.Extractor,
		navSync:   p.NavSync,
		catSync:   p.CatSync,
		prodSync:  p.ProdSync,
		index:     p.Index,
		baseURL:   p.BaseURL,
		logger:    p.Logger.WithComponent("orchestrator"),
	}
}

// indexProducts pushes a synced batch into the search index, if enabled.
func (s *Service) indexProducts(ctx context.Context, products []*domain.Product) {
	if s.index == nil || len(products) == 0 {
		return
	}
	if err := s.index.IndexProducts(ctx, products); err != nil {
		s.logger.Error("failed to index products", "count", len(products), "error", err)
	}
}

// CreateJob persists a pending job and enqueues it for asynchronous
// execution by a worker. Downstream scrape errors never surface here;
// they are recorded on the job later.
func (s *Service) CreateJob(
	ctx context.Context,
	targetURL string,
	kind domain.TargetKind,
	targetID *string,
) (*domain.ScrapeJob, error) {
	job, err := s.persistJob(ctx, targetURL, kind, targetID)
	if err != nil {
		return nil, err
	}

	msg := queue.Message{
		JobID:      job.ID,
		TargetURL:  targetURL,
		TargetKind: kind,
		TargetID:   targetID,
	}
	if err := s.taskQueue.Enqueue(ctx, msg); err != nil {
		return nil, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	s.logger.Info("created scrape job", "job_id", job.ID, "kind", kind)
	return job, nil
}

// persistJob writes a pending job row without enqueuing. The synchronous
// Run* paths use it directly so a job is never executed twice.
func (s *Service) persistJob(
	ctx context.Context,
	targetURL string,
	kind domain.TargetKind,
	targetID *string,
) (*domain.ScrapeJob, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown target kind: %q", kind)
	}

	job := &domain.ScrapeJob{
		ID:         uuid.NewString(),
		TargetURL:  targetURL,
		TargetKind: kind,
		TargetID:   targetID,
		Status:     domain.JobStatusPending,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Advance moves a job to a new status, enforcing the forward-only state
// machine. StartedAt is stamped exactly once, on the pending->running
// edge; FinishedAt exactly once, on entry to a terminal status.
func (s *Service) Advance(
	ctx context.Context,
	jobID string,
	status domain.JobStatus,
	errText *string,
	itemsScraped *int,
) (*domain.ScrapeJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s (job %s)", ErrInvalidTransition, job.Status, status, jobID)
	}

	now := time.Now()
	job.Status = status

	switch status {
	case domain.JobStatusRunning:
		if job.StartedAt == nil {
			job.StartedAt = &now
		}
	case domain.JobStatusCompleted, domain.JobStatusFailed:
		if job.FinishedAt == nil {
			job.FinishedAt = &now
		}
	case domain.JobStatusPending:
		// Unreachable: no edge leads back to pending.
	}

	if errText != nil {
		job.ErrorLog = errText
	}
	if itemsScraped != nil {
		job.ItemsScraped = *itemsScraped
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// execute runs one attempt for an already-persisted job: advance to
// running, invoke the pipeline, then record the terminal state. The
// pipeline error is stored verbatim on the job and returned to the
// caller; it is never swallowed.
func (s *Service) execute(ctx context.Context, job *domain.ScrapeJob, pipeline func(ctx context.Context) (int, error)) error {
	if _, err := s.Advance(ctx, job.ID, domain.JobStatusRunning, nil, nil); err != nil {
		return err
	}

	count, runErr := pipeline(ctx)
	if runErr != nil {
		msg := runErr.Error()
		if _, advErr := s.Advance(ctx, job.ID, domain.JobStatusFailed, &msg, nil); advErr != nil {
			s.logger.Error("failed to record job failure", "job_id", job.ID, "error", advErr)
		}
		s.logger.Error("scrape job failed", "job_id", job.ID, "kind", job.TargetKind, "error", runErr)
		return runErr
	}

	if _, err := s.Advance(ctx, job.ID, domain.JobStatusCompleted, nil, &count); err != nil {
		return err
	}

	s.logger.Info("scrape job completed", "job_id", job.ID, "kind", job.TargetKind, "items", count)
	return nil
}

// RunNavigation scrapes the site's navigation headings end to end.
func (s *Service) RunNavigation(ctx context.Context) (*domain.ScrapeJob, []*domain.Navigation, error) {
	job, err := s.persistJob(ctx, s.baseURL, domain.TargetNavigation, nil)
	if err != nil {
		return nil, nil, err
	}

	var saved []*domain.Navigation
	runErr := s.execute(ctx, job, func(ctx context.Context) (int, error) {
		items, extractErr := s.extractor.Navigation(ctx, s.baseURL)
		if extractErr != nil {
			return 0, extractErr
		}
		saved, extractErr = s.navSync.Sync(ctx, items)
		return len(saved), extractErr
	})

	job, getErr := s.jobs.GetByID(ctx, job.ID)
	if getErr != nil {
		return nil, nil, getErr
	}
	return job, saved, runErr
}

// RunCategory scrapes category links from url. The navigation and parent
// ids are passed through to the synchronizer for newly created rows.
func (s *Service) RunCategory(
	ctx context.Context,
	url string,
	navigationID, parentID *string,
) (*domain.ScrapeJob, []*domain.Category, error) {
	job, err := s.persistJob(ctx, url, domain.TargetCategory, nil)
	if err != nil {
		return nil, nil, err
	}

	var saved []*domain.Category
	runErr := s.execute(ctx, job, func(ctx context.Context) (int, error) {
		items, extractErr := s.extractor.Categories(ctx, url)
		if extractErr != nil {
			return 0, extractErr
		}
		saved, extractErr = s.catSync.Sync(ctx, items, navigationID, parentID)
		return len(saved), extractErr
	})

	job, getErr := s.jobs.GetByID(ctx, job.ID)
	if getErr != nil {
		return nil, nil, getErr
	}
	return job, saved, runErr
}

// RunProducts scrapes a product listing page. Pagination parameters are
// forwarded to the extractor.
func (s *Service) RunProducts(
	ctx context.Context,
	url string,
	categoryID *string,
	page, limit int,
) (*domain.ScrapeJob, []*domain.Product, error) {
	job, err := s.persistJob(ctx, url, domain.TargetProductList, nil)
	if err != nil {
		return nil, nil, err
	}

	var saved []*domain.Product
	runErr := s.execute(ctx, job, func(ctx context.Context) (int, error) {
		items, extractErr := s.extractor.Products(ctx, url, page, limit)
		if extractErr != nil {
			return 0, extractErr
		}
		saved, extractErr = s.prodSync.Sync(ctx, items, categoryID)
		if extractErr != nil {
			return 0, extractErr
		}
		s.indexProducts(ctx, saved)
		return len(saved), nil
	})

	job, getErr := s.jobs.GetByID(ctx, job.ID)
	if getErr != nil {
		return nil, nil, getErr
	}
	return job, saved, runErr
}

// RunProductDetail scrapes the detail page of an already-stored product.
// Returns a not-found error (database.ErrNotFound) before any job is
// created when the product id is unknown.
func (s *Service) RunProductDetail(ctx context.Context, productID string) (*domain.ScrapeJob, *domain.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	job, err := s.persistJob(ctx, product.SourceURL, domain.TargetProductDetail, &productID)
	if err != nil {
		return nil, nil, err
	}

	var detail *domain.ProductDetail
	runErr := s.execute(ctx, job, func(ctx context.Context) (int, error) {
		data, extractErr := s.extractor.ProductDetail(ctx, product.SourceURL)
		if extractErr != nil {
			return 0, extractErr
		}
		detail, extractErr = s.prodSync.SyncDetail(ctx, productID, data)
		if extractErr != nil {
			return 0, extractErr
		}
		return 1, nil
	})

	job, getErr := s.jobs.GetByID(ctx, job.ID)
	if getErr != nil {
		return nil, nil, getErr
	}
	return job, detail, runErr
}

// ExecuteMessage runs the execution path for a dequeued message. This is
// the asynchronous counterpart of the Run* methods, invoked by workers.
func (s *Service) ExecuteMessage(ctx context.Context, msg queue.Message) error {
	job, err := s.jobs.GetByID(ctx, msg.JobID)
	if err != nil {
		return err
	}

	if job.Status != domain.JobStatusPending {
		s.logger.Warn("skipping job not in pending state", "job_id", job.ID, "status", job.Status)
		return nil
	}

	switch msg.TargetKind {
	case domain.TargetNavigation:
		return s.execute(ctx, job, func(ctx context.Context) (int, error) {
			items, extractErr := s.extractor.Navigation(ctx, msg.TargetURL)
			if extractErr != nil {
				return 0, extractErr
			}
			saved, syncErr := s.navSync.Sync(ctx, items)
			return len(saved), syncErr
		})
	case domain.TargetCategory:
		return s.execute(ctx, job, func(ctx context.Context) (int, error) {
			items, extractErr := s.extractor.Categories(ctx, msg.TargetURL)
			if extractErr != nil {
				return 0, extractErr
			}
			saved, syncErr := s.catSync.Sync(ctx, items, nil, nil)
			return len(saved), syncErr
		})
	case domain.TargetProductList:
		return s.execute(ctx, job, func(ctx context.Context) (int, error) {
			items, extractErr := s.extractor.Products(ctx, msg.TargetURL, 1, scrape.DefaultListingLimit)
			if extractErr != nil {
				return 0, extractErr
			}
			saved, syncErr := s.prodSync.Sync(ctx, items, nil)
			if syncErr != nil {
				return 0, syncErr
			}
			s.indexProducts(ctx, saved)
			return len(saved), nil
		})
	case domain.TargetProductDetail:
		if msg.TargetID == nil {
			return fmt.Errorf("product detail message %s has no target id", msg.JobID)
		}
		return s.execute(ctx, job, func(ctx context.Context) (int, error) {
			data, extractErr := s.extractor.ProductDetail(ctx, msg.TargetURL)
			if extractErr != nil {
				return 0, extractErr
			}
			if _, syncErr := s.prodSync.SyncDetail(ctx, *msg.TargetID, data); syncErr != nil {
				return 0, syncErr
			}
			return 1, nil
		})
	default:
		return fmt.Errorf("unknown target kind: %q", msg.TargetKind)
	}
}

// FailStuckJobs marks jobs left running longer than threshold as failed.
// Run at worker startup; a crashed worker cannot resume its jobs, so a
// fresh run is the only retry path.
func (s *Service) FailStuckJobs(ctx context.Context, threshold time.Duration) (int, error) {
	stuck, err := s.jobs.GetStuckJobs(ctx, threshold)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, job := range stuck {
		msg := fmt.Sprintf("job stuck in running state for more than %s; worker likely restarted", threshold)
		if _, advErr := s.Advance(ctx, job.ID, domain.JobStatusFailed, &msg, nil); advErr != nil {
			s.logger.Error("failed to fail stuck job", "job_id", job.ID, "error", advErr)
			continue
		}
		failed++
	}

	if failed > 0 {
		s.logger.Warn("failed stuck jobs", "count", failed)
	}
	return failed, nil
}
