package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const navigationColumns = `id, title, slug, description, source_url,
	       last_scraped_at, created_at, updated_at`

// NavigationRepository handles database operations for navigation headings.
type NavigationRepository struct {
	db *sqlx.DB
}

// NewNavigationRepository creates a new navigation repository.
func NewNavigationRepository(db *sqlx.DB) *NavigationRepository {
	return &NavigationRepository{db: db}
}

// GetByID retrieves a navigation heading by its ID.
func (r *NavigationRepository) GetByID(ctx context.Context, id string) (*domain.Navigation, error) {
	var nav domain.Navigation
	query := `SELECT ` + navigationColumns + ` FROM navigation WHERE id = $1`

	err := r.db.GetContext(ctx, &nav, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("navigation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get navigation: %w", err)
	}

	return &nav, nil
}

// GetBySlug retrieves a navigation heading by its natural key.
func (r *NavigationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Navigation, error) {
	var nav domain.Navigation
	query := `SELECT ` + navigationColumns + ` FROM navigation WHERE slug = $1`

	err := r.db.GetContext(ctx, &nav, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("navigation slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get navigation by slug: %w", err)
	}

	return &nav, nil
}

// List retrieves all navigation headings ordered by title.
func (r *NavigationRepository) List(ctx context.Context) ([]*domain.Navigation, error) {
	var navs []*domain.Navigation
	query := `SELECT ` + navigationColumns + ` FROM navigation ORDER BY title ASC`

	err := r.db.SelectContext(ctx, &navs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list navigation: %w", err)
	}

	if navs == nil {
		navs = []*domain.Navigation{}
	}

	return navs, nil
}

// Upsert inserts or updates a navigation heading keyed by slug. The insert
// and the conflict update are one atomic statement, so concurrent syncs of
// the same slug cannot create duplicate rows. Identity and description are
// preserved on update.
func (r *NavigationRepository) Upsert(ctx context.Context, nav *domain.Navigation) error {
	query := `
		INSERT INTO navigation (id, title, slug, source_url, last_scraped_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			source_url = EXCLUDED.source_url,
			last_scraped_at = EXCLUDED.last_scraped_at,
			updated_at = NOW()
		RETURNING ` + navigationColumns

	err := r.db.GetContext(
		ctx,
		nav,
		query,
		nav.ID,
		nav.Title,
		nav.Slug,
		nav.SourceURL,
		nav.LastScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert navigation %q: %w", nav.Slug, err)
	}

	return nil
}
