package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/logger"
	"github.com/shelfwise/crawler/internal/scrape"
)

// ProductSynchronizer upserts extracted products keyed by source id, and
// product details keyed by product id.
type ProductSynchronizer struct {
	products database.ProductStore
	details  database.DetailStore
	reviews  database.ReviewStore
	logger   logger.Interface
}

// NewProductSynchronizer creates a product synchronizer.
func NewProductSynchronizer(
	products database.ProductStore,
	details database.DetailStore,
	reviews database.ReviewStore,
	log logger.Interface,
) *ProductSynchronizer {
	return &ProductSynchronizer{
		products: products,
		details:  details,
		reviews:  reviews,
		logger:   log.WithComponent("product_sync"),
	}
}

// Sync upserts each product in order. The category foreign key comes from
// the caller and only applies to newly created rows.
func (s *ProductSynchronizer) Sync(
	ctx context.Context,
	items []scrape.ProductItem,
	categoryID *string,
) ([]*domain.Product, error) {
	saved := make([]*domain.Product, 0, len(items))
	now := time.Now()

	for _, item := range items {
		p := &domain.Product{
			ID:            uuid.NewString(),
			SourceID:      item.SourceID,
			CategoryID:    categoryID,
			Title:         item.Title,
			Author:        item.Author,
			Price:         item.Price,
			Currency:      item.Currency,
			ImageURL:      item.ImageURL,
			SourceURL:     item.SourceURL,
			Availability:  item.Availability,
			Condition:     item.Condition,
			LastScrapedAt: &now,
		}

		if err := s.products.Upsert(ctx, p); err != nil {
			return saved, fmt.Errorf("sync product %q: %w", item.SourceID, err)
		}
		saved = append(saved, p)
	}

	s.logger.Info("synchronized products", "count", len(saved))
	return saved, nil
}

// SyncDetail upserts the detail row for a product and appends its scraped
// reviews. Reviews have no natural key and are inserted on every call, so
// repeated detail scrapes accumulate rows; the detail row itself stays
// unique per product. The owning product's last_scraped_at is stamped at
// the end.
func (s *ProductSynchronizer) SyncDetail(
	ctx context.Context,
	productID string,
	data *scrape.ProductDetailData,
) (*domain.ProductDetail, error) {
	detail := &domain.ProductDetail{
		ID:              uuid.NewString(),
		ProductID:       productID,
		Description:     data.Description,
		RatingsAvg:      data.RatingsAvg,
		ReviewsCount:    data.ReviewsCount,
		ISBN:            data.ISBN,
		Publisher:       data.Publisher,
		PublicationDate: data.PublicationDate,
		PageCount:       data.PageCount,
		Format:          data.Format,
		Recommendations: data.Recommendations,
	}

	if len(data.Specs) > 0 {
		specs := make(domain.JSONBMap, len(data.Specs))
		for k, v := range data.Specs {
			specs[k] = v
		}
		detail.Specs = specs
	}

	if err := s.details.Upsert(ctx, detail); err != nil {
		return nil, fmt.Errorf("sync product detail for %q: %w", productID, err)
	}

	for _, item := range data.Reviews {
		review := &domain.Review{
			ID:        uuid.NewString(),
			ProductID: productID,
			Author:    item.Author,
			Rating:    item.Rating,
			Text:      item.Text,
			Title:     item.Title,
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return nil, fmt.Errorf("save review for %q: %w", productID, err)
		}
	}

	if err := s.products.TouchLastScraped(ctx, productID); err != nil {
		return nil, err
	}

	s.logger.Info("synchronized product detail",
		"product_id", productID,
		"reviews", len(data.Reviews),
	)
	return detail, nil
}
