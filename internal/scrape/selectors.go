package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwise/crawler/internal/fetch"
)

// Candidate selector chains, ordered by preference. The first selector
// that yields at least one match wins for that logical field; later
// candidates are not consulted. Chains are evaluated per field, so one
// document may resolve different fields through different chain positions.
var (
	navLinkSelectors = []string{
		"nav a",
		".navigation a",
		`[role="navigation"] a`,
		"header nav a",
		".nav-link",
	}

	categoryLinkSelectors = []string{
		".category-list a",
		".subcategory a",
		"[data-category] a",
		".category-item",
		"ul.categories li a",
	}

	productCardSelectors = []string{
		".product-card",
		".product-item",
		"[data-product]",
		".grid-item",
		"article.product",
	}

	descriptionSelectors = []string{
		".product-description",
		"[data-description]",
		".description",
		"#product-description",
	}

	specContainerSelectors = []string{
		".product-details",
		".specifications",
		"[data-specs]",
		".product-info",
	}

	reviewSelectors = []string{
		".review",
		"[data-review]",
		".customer-review",
		"article.review",
	}

	recommendationSelectors = []string{
		".related-products a",
		".recommendations a",
		"[data-recommendations] a",
		".similar-products a",
	}
)

// firstMatch evaluates candidates in order against the document and
// returns the matches of the first selector that yields any. Returns nil
// when no candidate matches; callers treat that as an absent field.
func firstMatch(doc *fetch.Document, candidates []string) *goquery.Selection {
	for _, selector := range candidates {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
