package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const reviewColumns = `id, product_id, author, rating, text, title, review_date,
	       verified_purchase, helpful_count, created_at`

// ReviewRepository handles database operations for reviews.
//
// Reviews have no natural key: every sync that yields reviews inserts new
// rows. Repeated detail scrapes therefore accumulate duplicates.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review row.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO review (id, product_id, author, rating, text, title, review_date,
		                    verified_purchase, helpful_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ID,
		review.ProductID,
		review.Author,
		review.Rating,
		review.Text,
		review.Title,
		review.ReviewDate,
		review.VerifiedPurchase,
		review.HelpfulCount,
	).Scan(&review.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListByProductID retrieves reviews for a product, newest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, limit int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `SELECT ` + reviewColumns + `
		FROM review
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &reviews, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	return reviews, nil
}
