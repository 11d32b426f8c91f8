package scrape_test

import (
	"strings"
	"testing"

	"github.com/shelfwise/crawler/internal/scrape"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Children's Books", "children-s-books"},
		{"Sci-Fi & Fantasy", "sci-fi-fantasy"},
		{"Fiction", "fiction"},
		{"  Non-Fiction  ", "-non-fiction-"},
		{"Crime (123)", "crime-123-"},
	}

	for _, tc := range cases {
		if got := scrape.Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		want     float64
		currency string
	}{
		{"£12.99", 12.99, "GBP"},
		{"$9.00", 9.00, "USD"},
		{"€7.50", 7.50, "EUR"},
		{"15.00", 15.00, "GBP"},
		{"£1,299.00", 1299.00, "GBP"},
		{"From £3.49", 3.49, "GBP"},
	}

	for _, tc := range cases {
		amount, currency := scrape.ParsePrice(tc.in)
		if amount == nil {
			t.Errorf("ParsePrice(%q) = nil, want %v", tc.in, tc.want)
			continue
		}
		if *amount != tc.want {
			t.Errorf("ParsePrice(%q) amount = %v, want %v", tc.in, *amount, tc.want)
		}
		if currency != tc.currency {
			t.Errorf("ParsePrice(%q) currency = %q, want %q", tc.in, currency, tc.currency)
		}
	}
}

func TestParsePrice_NoAmount(t *testing.T) {
	t.Parallel()

	amount, currency := scrape.ParsePrice("Out of stock")
	if amount != nil {
		t.Errorf("expected nil amount, got %v", *amount)
	}
	if currency != "GBP" {
		t.Errorf("expected default GBP currency, got %q", currency)
	}
}

func TestSplitTrailingCount(t *testing.T) {
	t.Parallel()

	title, count := scrape.SplitTrailingCount("Crime & Thriller (214)")
	if title != "Crime & Thriller" {
		t.Errorf("title = %q, want %q", title, "Crime & Thriller")
	}
	if count != 214 {
		t.Errorf("count = %d, want 214", count)
	}

	title, count = scrape.SplitTrailingCount("Poetry")
	if title != "Poetry" {
		t.Errorf("title = %q, want %q", title, "Poetry")
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestSourceIDFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/product/the-great-gatsby", "the-great-gatsby"},
		{"https://example.com/product/book-123/", "book-123"},
		{"/product/slug-only?ref=home", "slug-only"},
	}

	for _, tc := range cases {
		if got := scrape.SourceIDFromURL(tc.in); got != tc.want {
			t.Errorf("SourceIDFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSourceIDFromURL_EmptySegmentGetsFallback(t *testing.T) {
	t.Parallel()

	got := scrape.SourceIDFromURL("https://example.com/")
	if !strings.HasPrefix(got, "product-") {
		t.Errorf("expected fallback key with product- prefix, got %q", got)
	}

	other := scrape.SourceIDFromURL("https://example.com/")
	if got == other {
		t.Error("fallback keys should be unique per call")
	}
}
