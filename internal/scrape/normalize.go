package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	slugRe          = regexp.MustCompile(`[^a-z0-9]+`)
	priceRe         = regexp.MustCompile(`([£$€])?([\d,.]+)`)
	trailingCountRe = regexp.MustCompile(`\s*\((\d+)\)\s*$`)
	countRe         = regexp.MustCompile(`\((\d+)\)`)
	numberRe        = regexp.MustCompile(`(\d+(\.\d+)?)`)
	digitsRe        = regexp.MustCompile(`\d+`)
)

// Slugify derives a natural key from display text: lowercase, with every
// run of non-alphanumeric characters collapsed to a single hyphen.
func Slugify(text string) string {
	return slugRe.ReplaceAllString(strings.ToLower(text), "-")
}

// ParsePrice extracts an amount and ISO currency from price text. An
// optional leading symbol selects the currency ($ -> USD, € -> EUR,
// anything else -> GBP); thousands separators are stripped before parsing.
// Returns nil when no amount is present.
func ParsePrice(text string) (*float64, string) {
	currency := "GBP"

	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, currency
	}

	switch m[1] {
	case "$":
		currency = "USD"
	case "€":
		currency = "EUR"
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return nil, currency
	}

	return &amount, currency
}

// SplitTrailingCount strips a trailing "(<n>)" from display text, returning
// the cleaned title and the parsed count (0 when absent).
func SplitTrailingCount(text string) (string, int) {
	count := 0
	if m := countRe.FindStringSubmatch(text); m != nil {
		count, _ = strconv.Atoi(m[1])
	}

	title := strings.TrimSpace(trailingCountRe.ReplaceAllString(text, ""))
	return title, count
}

// SourceIDFromURL synthesizes a product natural key from the trailing path
// segment of a link, with the query string stripped. An empty segment gets
// a unique fallback key.
func SourceIDFromURL(href string) string {
	trimmed := href
	if u, err := url.Parse(href); err == nil {
		trimmed = u.Path
	}

	segments := strings.Split(strings.TrimRight(trimmed, "/"), "/")
	last := segments[len(segments)-1]
	if i := strings.IndexByte(last, '?'); i >= 0 {
		last = last[:i]
	}

	if last == "" {
		return "product-" + uuid.NewString()
	}
	return last
}

// firstNumber parses the first numeric token in text (e.g. "4.5 out of 5"
// -> 4.5). Returns 0 when none is found.
func firstNumber(text string) float64 {
	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return n
}

// leadingDigits parses the first run of digits in text (e.g. "352 pages"
// -> 352). Returns 0 when none is found.
func leadingDigits(text string) int {
	m := digitsRe.FindString(text)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// withPagination appends page and limit query parameters to a listing URL.
func withPagination(rawURL string, page, limit int) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	return u.String()
}
