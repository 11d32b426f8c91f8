package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const productColumns = `id, source_id, category_id, title, author, price, currency,
	       image_url, source_url, availability, condition, last_scraped_at,
	       created_at, updated_at`

// ProductRepository handles database operations for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	query := `SELECT ` + productColumns + ` FROM product WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// GetBySourceID retrieves a product by its natural key.
func (r *ProductRepository) GetBySourceID(ctx context.Context, sourceID string) (*domain.Product, error) {
	var p domain.Product
	query := `SELECT ` + productColumns + ` FROM product WHERE source_id = $1`

	err := r.db.GetContext(ctx, &p, query, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product source_id %s: %w", sourceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by source_id: %w", err)
	}

	return &p, nil
}

// List retrieves a page of products, optionally filtered by category,
// newest first. Returns the page and the unfiltered total for pagination.
func (r *ProductRepository) List(ctx context.Context, categoryID *string, limit, offset int) ([]*domain.Product, int, error) {
	var products []*domain.Product
	var total int

	if categoryID != nil {
		countErr := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM product WHERE category_id = $1`, *categoryID)
		if countErr != nil {
			return nil, 0, fmt.Errorf("failed to count products: %w", countErr)
		}

		query := `SELECT ` + productColumns + `
			FROM product
			WHERE category_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		if err := r.db.SelectContext(ctx, &products, query, *categoryID, limit, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to list products: %w", err)
		}
	} else {
		countErr := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM product`)
		if countErr != nil {
			return nil, 0, fmt.Errorf("failed to count products: %w", countErr)
		}

		query := `SELECT ` + productColumns + `
			FROM product
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`
		if err := r.db.SelectContext(ctx, &products, query, limit, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to list products: %w", err)
		}
	}

	if products == nil {
		products = []*domain.Product{}
	}

	return products, total, nil
}

// Upsert inserts or updates a product keyed by source_id in one atomic
// statement. The category foreign key is written only on insert.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO product (id, source_id, category_id, title, author, price, currency,
		                     image_url, source_url, availability, condition, last_scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (source_id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			image_url = EXCLUDED.image_url,
			source_url = EXCLUDED.source_url,
			availability = EXCLUDED.availability,
			condition = EXCLUDED.condition,
			last_scraped_at = EXCLUDED.last_scraped_at,
			updated_at = NOW()
		RETURNING ` + productColumns

	err := r.db.GetContext(
		ctx,
		p,
		query,
		p.ID,
		p.SourceID,
		p.CategoryID,
		p.Title,
		p.Author,
		p.Price,
		p.Currency,
		p.ImageURL,
		p.SourceURL,
		p.Availability,
		p.Condition,
		p.LastScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %q: %w", p.SourceID, err)
	}

	return nil
}

// TouchLastScraped stamps a product's last_scraped_at without other changes.
func (r *ProductRepository) TouchLastScraped(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE product SET last_scraped_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id,
	)
	if touchErr := execRequireRows(result, err, fmt.Errorf("product %s: %w", id, ErrNotFound)); touchErr != nil {
		if errors.Is(touchErr, ErrNotFound) {
			return touchErr
		}
		return fmt.Errorf("failed to touch product: %w", touchErr)
	}
	return nil
}
