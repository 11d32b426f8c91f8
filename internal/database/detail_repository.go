package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const detailColumns = `id, product_id, description, specs, ratings_avg, reviews_count,
	       isbn, publisher, publication_date, page_count, format, recommendations,
	       created_at, updated_at`

// DetailRepository handles database operations for product details.
type DetailRepository struct {
	db *sqlx.DB
}

// NewDetailRepository creates a new product detail repository.
func NewDetailRepository(db *sqlx.DB) *DetailRepository {
	return &DetailRepository{db: db}
}

// GetByProductID retrieves the detail row for a product (1:1).
func (r *DetailRepository) GetByProductID(ctx context.Context, productID string) (*domain.ProductDetail, error) {
	var d domain.ProductDetail
	query := `SELECT ` + detailColumns + ` FROM product_detail WHERE product_id = $1`

	err := r.db.GetContext(ctx, &d, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product detail for %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product detail: %w", err)
	}

	return &d, nil
}

// Upsert inserts or updates the detail row keyed by product_id in one
// atomic statement. A partial extraction is valid output, so fields the
// current scrape did not yield keep their stored values.
func (r *DetailRepository) Upsert(ctx context.Context, d *domain.ProductDetail) error {
	query := `
		INSERT INTO product_detail (id, product_id, description, specs, ratings_avg, reviews_count,
		                            isbn, publisher, publication_date, page_count, format, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id) DO UPDATE SET
			description = COALESCE(EXCLUDED.description, product_detail.description),
			specs = COALESCE(EXCLUDED.specs, product_detail.specs),
			ratings_avg = COALESCE(EXCLUDED.ratings_avg, product_detail.ratings_avg),
			reviews_count = EXCLUDED.reviews_count,
			isbn = COALESCE(EXCLUDED.isbn, product_detail.isbn),
			publisher = COALESCE(EXCLUDED.publisher, product_detail.publisher),
			publication_date = COALESCE(EXCLUDED.publication_date, product_detail.publication_date),
			page_count = COALESCE(EXCLUDED.page_count, product_detail.page_count),
			format = COALESCE(EXCLUDED.format, product_detail.format),
			recommendations = COALESCE(EXCLUDED.recommendations, product_detail.recommendations),
			updated_at = NOW()
		RETURNING ` + detailColumns

	err := r.db.GetContext(
		ctx,
		d,
		query,
		d.ID,
		d.ProductID,
		d.Description,
		d.Specs,
		d.RatingsAvg,
		d.ReviewsCount,
		d.ISBN,
		d.Publisher,
		d.PublicationDate,
		d.PageCount,
		d.Format,
		d.Recommendations,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product detail for %q: %w", d.ProductID, err)
	}

	return nil
}
