// Package fetch loads pages from the source site and exposes them as
// queryable documents. The rendering engine is a pluggable adapter behind
// the PageFetcher interface.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrFetchFailed marks a page that failed to load after the retry budget.
var ErrFetchFailed = errors.New("page fetch failed")

// Options adjusts a single page load.
type Options struct {
	// ScrollToBottom scrolls the page before snapshotting the DOM, so
	// lazy-loaded images resolve their real sources.
	ScrollToBottom bool
}

// PageFetcher loads a URL and returns a queryable document.
type PageFetcher interface {
	Load(ctx context.Context, url string, opts Options) (*Document, error)
}

// Document is a fetched, parsed page.
type Document struct {
	url string
	doc *goquery.Document
}

// NewDocument parses raw HTML into a Document.
func NewDocument(url string, html []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{url: url, doc: doc}, nil
}

// URL returns the address the document was loaded from.
func (d *Document) URL() string {
	return d.url
}

// Find returns all nodes matching the CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Config holds page fetching settings shared by all adapters.
type Config struct {
	// Timeout bounds a single load attempt.
	Timeout time.Duration
	// MaxAttempts is the fixed retry budget for a page load.
	MaxAttempts int
	// UserAgent identifies the fetcher to the source site.
	UserAgent string
	// Headless disables the browser UI for the rendering adapter.
	Headless bool
}

// WithDefaults fills unset fields with working defaults.
func (c Config) WithDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.UserAgent == "" {
		c.UserAgent = "shelfwise-crawler/1.0"
	}
	return c
}
