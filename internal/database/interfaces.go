package database

import (
	"context"
	"time"

	"github.com/shelfwise/crawler/internal/domain"
)

// JobStore defines the contract for scrape job persistence.
type JobStore interface {
	Create(ctx context.Context, job *domain.ScrapeJob) error
	GetByID(ctx context.Context, id string) (*domain.ScrapeJob, error)
	List(ctx context.Context, status domain.JobStatus, limit, offset int) ([]*domain.ScrapeJob, error)
	Update(ctx context.Context, job *domain.ScrapeJob) error
	Count(ctx context.Context, status domain.JobStatus) (int, error)
	GetStuckJobs(ctx context.Context, threshold time.Duration) ([]*domain.ScrapeJob, error)
}

// NavigationStore defines the contract for navigation persistence.
type NavigationStore interface {
	GetByID(ctx context.Context, id string) (*domain.Navigation, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Navigation, error)
	List(ctx context.Context) ([]*domain.Navigation, error)
	Upsert(ctx context.Context, nav *domain.Navigation) error
}

// CategoryStore defines the contract for category persistence.
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, navigationID, parentID *string) ([]*domain.Category, error)
	Upsert(ctx context.Context, cat *domain.Category) error
}

// ProductStore defines the contract for product persistence.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySourceID(ctx context.Context, sourceID string) (*domain.Product, error)
	List(ctx context.Context, categoryID *string, limit, offset int) ([]*domain.Product, int, error)
	Upsert(ctx context.Context, p *domain.Product) error
	TouchLastScraped(ctx context.Context, id string) error
}

// DetailStore defines the contract for product detail persistence.
type DetailStore interface {
	GetByProductID(ctx context.Context, productID string) (*domain.ProductDetail, error)
	Upsert(ctx context.Context, d *domain.ProductDetail) error
}

// ReviewStore defines the contract for review persistence.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProductID(ctx context.Context, productID string, limit int) ([]*domain.Review, error)
}

// HistoryStore defines the contract for browsing history persistence.
type HistoryStore interface {
	Create(ctx context.Context, entry *domain.ViewHistory) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ViewHistory, error)
}

// Compile-time checks that the repositories satisfy their contracts.
var (
	_ JobStore        = (*JobRepository)(nil)
	_ NavigationStore = (*NavigationRepository)(nil)
	_ CategoryStore   = (*CategoryRepository)(nil)
	_ ProductStore    = (*ProductRepository)(nil)
	_ DetailStore     = (*DetailRepository)(nil)
	_ ReviewStore     = (*ReviewRepository)(nil)
	_ HistoryStore    = (*HistoryRepository)(nil)
)
