package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwise/crawler/internal/fetch"
)

// Categories extracts category links from the page at url. A trailing
// "(<count>)" in the link text becomes the product count and is stripped
// from the title; the slug is derived from the raw display text.
func (e *Extractor) Categories(ctx context.Context, url string) ([]CategoryItem, error) {
	doc, err := e.fetcher.Load(ctx, url, fetch.Options{})
	if err != nil {
		return nil, err
	}

	items := []CategoryItem{}
	seen := map[string]bool{}

	links := firstMatch(doc, categoryLinkSelectors)
	if links == nil {
		e.logger.Warn("no category links matched", "url", url)
		return items, nil
	}

	links.Each(func(_ int, link *goquery.Selection) {
		text := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if text == "" || !ok || href == "" || seen[href] {
			return
		}

		seen[href] = true
		title, count := SplitTrailingCount(text)
		items = append(items, CategoryItem{
			Title:        title,
			URL:          href,
			Slug:         Slugify(text),
			ProductCount: count,
		})
	})

	e.logger.Info("extracted categories", "url", url, "count", len(items))
	return items, nil
}
