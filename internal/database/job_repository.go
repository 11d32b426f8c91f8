package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const jobColumns = `id, target_url, target_kind, target_id, status, started_at,
	       finished_at, error_log, items_scraped, metadata, created_at, updated_at`

// JobRepository handles database operations for scrape jobs.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new scrape job.
func (r *JobRepository) Create(ctx context.Context, job *domain.ScrapeJob) error {
	query := `
		INSERT INTO scrape_job (id, target_url, target_kind, target_id, status, items_scraped, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		job.ID,
		job.TargetURL,
		job.TargetKind,
		job.TargetID,
		job.Status,
		job.ItemsScraped,
		job.Metadata,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a scrape job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.ScrapeJob, error) {
	var job domain.ScrapeJob
	query := `SELECT ` + jobColumns + ` FROM scrape_job WHERE id = $1`

	err := r.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// List retrieves scrape jobs, optionally filtered by status, newest first.
func (r *JobRepository) List(ctx context.Context, status domain.JobStatus, limit, offset int) ([]*domain.ScrapeJob, error) {
	var jobs []*domain.ScrapeJob
	var query string
	var args []any

	if status != "" {
		query = `SELECT ` + jobColumns + `
			FROM scrape_job
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		args = []any{status, limit, offset}
	} else {
		query = `SELECT ` + jobColumns + `
			FROM scrape_job
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`
		args = []any{limit, offset}
	}

	err := r.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	if jobs == nil {
		jobs = []*domain.ScrapeJob{}
	}

	return jobs, nil
}

// Update persists the mutable fields of an existing job.
func (r *JobRepository) Update(ctx context.Context, job *domain.ScrapeJob) error {
	query := `
		UPDATE scrape_job
		SET status = $1, started_at = $2, finished_at = $3, error_log = $4,
		    items_scraped = $5, metadata = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		job.Status,
		job.StartedAt,
		job.FinishedAt,
		job.ErrorLog,
		job.ItemsScraped,
		job.Metadata,
		job.ID,
	)

	if updateErr := execRequireRows(result, err, fmt.Errorf("job %s: %w", job.ID, ErrNotFound)); updateErr != nil {
		if errors.Is(updateErr, ErrNotFound) {
			return updateErr
		}
		return fmt.Errorf("failed to update job: %w", updateErr)
	}

	return nil
}

// Count returns the number of jobs, optionally filtered by status.
func (r *JobRepository) Count(ctx context.Context, status domain.JobStatus) (int, error) {
	var count int
	var err error

	if status != "" {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scrape_job WHERE status = $1`, status)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scrape_job`)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return count, nil
}

// GetStuckJobs returns jobs left in running state longer than threshold.
// A worker restart mid-run is the usual cause.
func (r *JobRepository) GetStuckJobs(ctx context.Context, threshold time.Duration) ([]*domain.ScrapeJob, error) {
	var jobs []*domain.ScrapeJob
	query := `SELECT ` + jobColumns + `
		FROM scrape_job
		WHERE status = $1 AND started_at < $2
		ORDER BY started_at ASC`

	cutoff := time.Now().Add(-threshold)
	err := r.db.SelectContext(ctx, &jobs, query, domain.JobStatusRunning, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get stuck jobs: %w", err)
	}

	return jobs, nil
}
