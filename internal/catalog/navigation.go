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

// NavigationSynchronizer upserts extracted navigation headings keyed by
// slug.
type NavigationSynchronizer struct {
	store  database.NavigationStore
	logger logger.Interface
}

// NewNavigationSynchronizer creates a navigation synchronizer.
func NewNavigationSynchronizer(store database.NavigationStore, log logger.Interface) *NavigationSynchronizer {
	return &NavigationSynchronizer{
		store:  store,
		logger: log.WithComponent("navigation_sync"),
	}
}

// Sync upserts each record in order. Re-running with the same input yields
// one row per distinct slug with a stable identity. Not atomic across the
// batch: a failure leaves earlier records committed and aborts the rest.
func (s *NavigationSynchronizer) Sync(ctx context.Context, items []scrape.NavigationItem) ([]*domain.Navigation, error) {
	saved := make([]*domain.Navigation, 0, len(items))
	now := time.Now()

	for _, item := range items {
		nav := &domain.Navigation{
			ID:            uuid.NewString(),
			Title:         item.Title,
			Slug:          item.Slug,
			SourceURL:     &item.URL,
			LastScrapedAt: &now,
		}

		if err := s.store.Upsert(ctx, nav); err != nil {
			return saved, fmt.Errorf("sync navigation %q: %w", item.Slug, err)
		}
		saved = append(saved, nav)
	}

	s.logger.Info("synchronized navigation items", "count", len(saved))
	return saved, nil
}
