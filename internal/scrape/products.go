package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwise/crawler/internal/fetch"
)

// In-card selector chains for product fields. Each resolves independently
// through Find(...).First(), so a card missing one field still yields the
// others.
const (
	productTitleSelector  = `h2, h3, .product-title, [data-title], a[href*="/product"]`
	productLinkSelector   = `a[href*="/product"]`
	productPriceSelector  = `.price, [data-price], .product-price`
	productAuthorSelector = `.author, [data-author], .product-author`
)

// Defaults stamped on every extracted product; the listing page does not
// expose these.
const (
	defaultAvailability = "In Stock"
	defaultCondition    = "Used - Good"
)

// DefaultListingLimit caps a listing extraction when the caller does not
// request a specific page size.
const DefaultListingLimit = 20

// Products extracts product cards from the listing at url. Pagination
// parameters are appended to the URL before fetching; the result is
// truncated to limit after extraction. The page is scrolled to the bottom
// before reading the DOM so lazy-loaded images resolve.
func (e *Extractor) Products(ctx context.Context, url string, page, limit int) ([]ProductItem, error) {
	paginatedURL := withPagination(url, page, limit)

	doc, err := e.fetcher.Load(ctx, paginatedURL, fetch.Options{ScrollToBottom: true})
	if err != nil {
		return nil, err
	}

	items := []ProductItem{}

	cards := firstMatch(doc, productCardSelectors)
	if cards == nil {
		e.logger.Warn("no product cards matched", "url", paginatedURL)
		return items, nil
	}

	cards.Each(func(_ int, card *goquery.Selection) {
		if item, ok := extractProductCard(card); ok {
			items = append(items, item)
		}
	})

	if len(items) > limit {
		items = items[:limit]
	}

	e.logger.Info("extracted products", "url", paginatedURL, "count", len(items))
	return items, nil
}

// extractProductCard pulls one product from a card element. Title and link
// are required; everything else is optional.
func extractProductCard(card *goquery.Selection) (ProductItem, bool) {
	titleEl := card.Find(productTitleSelector).First()
	title := strings.TrimSpace(titleEl.Text())

	linkEl := card.Find(productLinkSelector).First()
	if linkEl.Length() == 0 {
		linkEl = titleEl
	}
	href, _ := linkEl.Attr("href")

	if title == "" || href == "" {
		return ProductItem{}, false
	}

	item := ProductItem{
		SourceID:     SourceIDFromURL(href),
		Title:        title,
		Currency:     "GBP",
		SourceURL:    href,
		Availability: ptr(defaultAvailability),
		Condition:    ptr(defaultCondition),
	}

	if img := card.Find("img").First(); img.Length() > 0 {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			// Lazy-load fallback attribute.
			src, _ = img.Attr("data-src")
		}
		if src != "" {
			item.ImageURL = &src
		}
	}

	if priceText := strings.TrimSpace(card.Find(productPriceSelector).First().Text()); priceText != "" {
		item.Price, item.Currency = ParsePrice(priceText)
	}

	if author := strings.TrimSpace(card.Find(productAuthorSelector).First().Text()); author != "" {
		item.Author = &author
	}

	return item, true
}

func ptr(s string) *string {
	return &s
}
