package fetch

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"

	"github.com/shelfwise/crawler/internal/logger"
)

// CollyFetcher fetches pages over plain HTTP via colly, without JavaScript
// rendering. ScrollToBottom is a no-op here; lazy-load fallback attributes
// in the markup still work because extraction reads data-src directly.
type CollyFetcher struct {
	cfg    Config
	logger logger.Interface
}

// NewCollyFetcher creates a static-page fetcher.
func NewCollyFetcher(cfg Config, log logger.Interface) *CollyFetcher {
	return &CollyFetcher{
		cfg:    cfg.WithDefaults(),
		logger: log.WithComponent("colly_fetcher"),
	}
}

// Load fetches the page, retrying transient failures up to the configured
// attempt budget.
func (f *CollyFetcher) Load(ctx context.Context, url string, _ Options) (*Document, error) {
	f.logger.Debug("loading page", "url", url)

	doc, err := loadWithRetry(ctx, f.cfg.MaxAttempts, f.loadOnce(url))
	if err != nil {
		f.logger.Error("page load failed", "url", url, "error", err)
		return nil, err
	}

	return doc, nil
}

func (f *CollyFetcher) loadOnce(url string) func(ctx context.Context) (*Document, error) {
	return func(ctx context.Context) (*Document, error) {
		collector := colly.NewCollector(
			colly.UserAgent(f.cfg.UserAgent),
			colly.StdlibContext(ctx),
		)
		collector.SetRequestTimeout(f.cfg.Timeout)

		var body []byte
		var fetchErr error

		collector.OnResponse(func(r *colly.Response) {
			body = r.Body
		})
		collector.OnError(func(_ *colly.Response, err error) {
			fetchErr = err
		})

		if err := collector.Visit(url); err != nil {
			return nil, fmt.Errorf("visit failed: %w", err)
		}
		collector.Wait()

		if fetchErr != nil {
			return nil, fmt.Errorf("request failed: %w", fetchErr)
		}
		if len(body) == 0 {
			return nil, fmt.Errorf("empty response from %s", url)
		}

		return NewDocument(url, body)
	}
}
