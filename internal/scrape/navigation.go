package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwise/crawler/internal/fetch"
)

// relevantKeywords filters navigation links down to catalog-related ones.
var relevantKeywords = []string{"book", "category", "fiction", "non-fiction", "children", "academic"}

// Navigation extracts catalog navigation headings from the page at url.
// Links are deduplicated by href; irrelevant links are dropped.
func (e *Extractor) Navigation(ctx context.Context, url string) ([]NavigationItem, error) {
	doc, err := e.fetcher.Load(ctx, url, fetch.Options{})
	if err != nil {
		return nil, err
	}

	items := []NavigationItem{}
	seen := map[string]bool{}

	links := firstMatch(doc, navLinkSelectors)
	if links == nil {
		e.logger.Warn("no navigation links matched", "url", url)
		return items, nil
	}

	links.Each(func(_ int, link *goquery.Selection) {
		text := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if text == "" || !ok || href == "" || seen[href] {
			return
		}

		if !isRelevant(text, href) {
			return
		}

		seen[href] = true
		items = append(items, NavigationItem{
			Title: text,
			URL:   href,
			Slug:  Slugify(text),
		})
	})

	e.logger.Info("extracted navigation items", "url", url, "count", len(items))
	return items, nil
}

func isRelevant(text, href string) bool {
	lowerText := strings.ToLower(text)
	lowerHref := strings.ToLower(href)
	for _, kw := range relevantKeywords {
		if strings.Contains(lowerText, kw) || strings.Contains(lowerHref, kw) {
			return true
		}
	}
	return false
}
