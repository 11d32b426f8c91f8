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

// CategorySynchronizer upserts extracted category links keyed by slug.
type CategorySynchronizer struct {
	store  database.CategoryStore
	logger logger.Interface
}

// NewCategorySynchronizer creates a category synchronizer.
func NewCategorySynchronizer(store database.CategoryStore, log logger.Interface) *CategorySynchronizer {
	return &CategorySynchronizer{
		store:  store,
		logger: log.WithComponent("category_sync"),
	}
}

// Sync upserts each record in order. The navigation and parent foreign
// keys come from the caller, never from extraction, and only apply to
// newly created rows.
func (s *CategorySynchronizer) Sync(
	ctx context.Context,
	items []scrape.CategoryItem,
	navigationID, parentID *string,
) ([]*domain.Category, error) {
	saved := make([]*domain.Category, 0, len(items))
	now := time.Now()

	for _, item := range items {
		cat := &domain.Category{
			ID:            uuid.NewString(),
			NavigationID:  navigationID,
			ParentID:      parentID,
			Title:         item.Title,
			Slug:          item.Slug,
			ProductCount:  item.ProductCount,
			SourceURL:     &item.URL,
			LastScrapedAt: &now,
		}

		if err := s.store.Upsert(ctx, cat); err != nil {
			return saved, fmt.Errorf("sync category %q: %w", item.Slug, err)
		}
		saved = append(saved, cat)
	}

	s.logger.Info("synchronized categories", "count", len(saved))
	return saved, nil
}
