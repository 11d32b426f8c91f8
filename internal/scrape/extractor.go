// Package scrape extracts catalog records from fetched pages. The source
// markup is uncontrolled, so every field is resolved through an ordered
// fallback selector chain and partial results are valid output.
package scrape

import (
	"github.com/shelfwise/crawler/internal/fetch"
	"github.com/shelfwise/crawler/internal/logger"
)

// NavigationItem is one extracted navigation heading.
type NavigationItem struct {
	Title string
	URL   string
	Slug  string
}

// CategoryItem is one extracted category link.
type CategoryItem struct {
	Title        string
	URL          string
	Slug         string
	ProductCount int
}

// ProductItem is one extracted product card.
type ProductItem struct {
	SourceID     string
	Title        string
	Author       *string
	Price        *float64
	Currency     string
	ImageURL     *string
	SourceURL    string
	Availability *string
	Condition    *string
}

// ReviewItem is one extracted customer review.
type ReviewItem struct {
	Author *string
	Rating float64
	Text   *string
	Title  *string
}

// ProductDetailData holds the independently extracted sections of a
// product detail page. Any field may be absent.
type ProductDetailData struct {
	Description     *string
	Specs           map[string]string
	ISBN            *string
	Publisher       *string
	PublicationDate *string
	PageCount       *int
	Format          *string
	Reviews         []ReviewItem
	RatingsAvg      *float64
	ReviewsCount    int
	Recommendations []string
}

// Extractor runs per-kind extraction against pages loaded through a
// PageFetcher.
type Extractor struct {
	fetcher fetch.PageFetcher
	logger  logger.Interface
}

// NewExtractor creates an extractor on top of the given fetcher.
func NewExtractor(fetcher fetch.PageFetcher, log logger.Interface) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		logger:  log.WithComponent("extractor"),
	}
}
