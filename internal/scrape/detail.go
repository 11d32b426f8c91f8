package scrape

import (
	"context"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwise/crawler/internal/fetch"
)

// In-section selector chains for the detail page. Sections are extracted
// independently; a missing section leaves its fields absent.
const (
	specRowSelector      = "tr, .spec-row, dt"
	specLabelSelector    = "th, dt, .label"
	specValueSelector    = "td, dd, .value"
	reviewAuthorSelector = ".reviewer, .author, [data-author]"
	reviewRatingSelector = ".rating, [data-rating]"
	reviewTextSelector   = ".review-text, .comment"
	reviewTitleSelector  = ".review-title, h3, h4"
)

// ProductDetail extracts the detail sections of the product page at url:
// description, specification table (with heuristic field reclassification),
// reviews with aggregates, and recommendation links.
func (e *Extractor) ProductDetail(ctx context.Context, url string) (*ProductDetailData, error) {
	doc, err := e.fetcher.Load(ctx, url, fetch.Options{})
	if err != nil {
		return nil, err
	}

	data := &ProductDetailData{}

	if desc := firstMatch(doc, descriptionSelectors); desc != nil {
		if text := strings.TrimSpace(desc.First().Text()); text != "" {
			data.Description = &text
		}
	}

	e.extractSpecs(doc, data)
	e.extractReviews(doc, data)
	e.extractRecommendations(doc, data)

	e.logger.Info("extracted product detail",
		"url", url,
		"specs", len(data.Specs),
		"reviews", len(data.Reviews),
		"recommendations", len(data.Recommendations),
	)
	return data, nil
}

// extractSpecs reads the specification table and reclassifies well-known
// rows into dedicated fields by label substring.
func (e *Extractor) extractSpecs(doc *fetch.Document, data *ProductDetailData) {
	container := firstMatch(doc, specContainerSelectors)
	if container == nil {
		return
	}

	specs := map[string]string{}
	container.First().Find(specRowSelector).Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find(specLabelSelector).First().Text())
		value := strings.TrimSpace(row.Find(specValueSelector).First().Text())
		if label == "" || value == "" {
			return
		}

		specs[label] = value

		lower := strings.ToLower(label)
		switch {
		case strings.Contains(lower, "isbn"):
			data.ISBN = &value
		case strings.Contains(lower, "publisher"):
			data.Publisher = &value
		case strings.Contains(lower, "publication"):
			data.PublicationDate = &value
		case strings.Contains(lower, "pages"):
			if n := leadingDigits(value); n > 0 {
				data.PageCount = &n
			}
		case strings.Contains(lower, "format"):
			data.Format = &value
		}
	})

	if len(specs) > 0 {
		data.Specs = specs
	}
}

// extractReviews reads customer reviews and computes the aggregates:
// review count and mean rating rounded to two decimals.
func (e *Extractor) extractReviews(doc *fetch.Document, data *ProductDetailData) {
	elements := firstMatch(doc, reviewSelectors)
	if elements == nil {
		return
	}

	var reviews []ReviewItem
	elements.Each(func(_ int, el *goquery.Selection) {
		ratingEl := el.Find(reviewRatingSelector).First()
		ratingText := ratingEl.Text()
		if ratingText == "" {
			ratingText, _ = ratingEl.Attr("data-rating")
		}
		rating := firstNumber(ratingText)

		review := ReviewItem{Rating: rating}
		if author := strings.TrimSpace(el.Find(reviewAuthorSelector).First().Text()); author != "" {
			review.Author = &author
		}
		if text := strings.TrimSpace(el.Find(reviewTextSelector).First().Text()); text != "" {
			review.Text = &text
		}
		if title := strings.TrimSpace(el.Find(reviewTitleSelector).First().Text()); title != "" {
			review.Title = &title
		}

		if rating > 0 || review.Text != nil {
			reviews = append(reviews, review)
		}
	})

	if len(reviews) == 0 {
		return
	}

	data.Reviews = reviews
	data.ReviewsCount = len(reviews)

	sum := 0.0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := math.Round(sum/float64(len(reviews))*100) / 100
	data.RatingsAvg = &avg
}

// extractRecommendations reads related-product links, deduplicated by href.
func (e *Extractor) extractRecommendations(doc *fetch.Document, data *ProductDetailData) {
	links := firstMatch(doc, recommendationSelectors)
	if links == nil {
		return
	}

	seen := map[string]bool{}
	links.Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || href == "" || seen[href] {
			return
		}
		seen[href] = true
		data.Recommendations = append(data.Recommendations, href)
	})
}
