package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const categoryColumns = `id, navigation_id, parent_id, title, slug, description,
	       product_count, source_url, last_scraped_at, created_at, updated_at`

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var cat domain.Category
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1`

	err := r.db.GetContext(ctx, &cat, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &cat, nil
}

// GetBySlug retrieves a category by its natural key.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var cat domain.Category
	query := `SELECT ` + categoryColumns + ` FROM category WHERE slug = $1`

	err := r.db.GetContext(ctx, &cat, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return &cat, nil
}

// List retrieves categories, optionally filtered by navigation or parent.
func (r *CategoryRepository) List(ctx context.Context, navigationID, parentID *string) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE 1=1`
	args := []any{}

	if navigationID != nil {
		args = append(args, *navigationID)
		query += fmt.Sprintf(" AND navigation_id = $%d", len(args))
	}
	if parentID != nil {
		args = append(args, *parentID)
		query += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	query += " ORDER BY title ASC"

	var cats []*domain.Category
	err := r.db.SelectContext(ctx, &cats, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if cats == nil {
		cats = []*domain.Category{}
	}

	return cats, nil
}

// Upsert inserts or updates a category keyed by slug in one atomic
// statement. Foreign keys (navigation_id, parent_id) are written only on
// insert; an update never reparents an existing category. A zero scraped
// product count keeps the stored count.
func (r *CategoryRepository) Upsert(ctx context.Context, cat *domain.Category) error {
	query := `
		INSERT INTO category (id, navigation_id, parent_id, title, slug, product_count, source_url, last_scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			source_url = EXCLUDED.source_url,
			product_count = CASE
				WHEN EXCLUDED.product_count > 0 THEN EXCLUDED.product_count
				ELSE category.product_count
			END,
			last_scraped_at = EXCLUDED.last_scraped_at,
			updated_at = NOW()
		RETURNING ` + categoryColumns

	err := r.db.GetContext(
		ctx,
		cat,
		query,
		cat.ID,
		cat.NavigationID,
		cat.ParentID,
		cat.Title,
		cat.Slug,
		cat.ProductCount,
		cat.SourceURL,
		cat.LastScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", cat.Slug, err)
	}

	return nil
}
