package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/shelfwise/crawler/internal/logger"
)

const (
	// renderSettle gives client-side rendering a moment to finish after
	// navigation before the DOM is read.
	renderSettle = 2 * time.Second

	// scrollSteps and scrollPause control the lazy-load scroll pass.
	scrollSteps = 10
	scrollPause = 300 * time.Millisecond
)

// ChromeFetcher renders pages in headless Chrome via chromedp. Use it for
// targets that need JavaScript execution; for static pages the colly
// adapter is cheaper.
type ChromeFetcher struct {
	cfg       Config
	allocOpts []chromedp.ExecAllocatorOption
	logger    logger.Interface
}

// NewChromeFetcher creates a rendering fetcher.
func NewChromeFetcher(cfg Config, log logger.Interface) *ChromeFetcher {
	cfg = cfg.WithDefaults()

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
	)

	return &ChromeFetcher{
		cfg:       cfg,
		allocOpts: opts,
		logger:    log.WithComponent("chrome_fetcher"),
	}
}

// Load fetches and renders the page, retrying transient navigation
// failures up to the configured attempt budget.
func (f *ChromeFetcher) Load(ctx context.Context, url string, opts Options) (*Document, error) {
	f.logger.Debug("loading page", "url", url, "scroll", opts.ScrollToBottom)

	doc, err := loadWithRetry(ctx, f.cfg.MaxAttempts, func(ctx context.Context) (*Document, error) {
		return f.loadOnce(ctx, url, opts)
	})
	if err != nil {
		f.logger.Error("page load failed", "url", url, "error", err)
		return nil, err
	}

	return doc, nil
}

func (f *ChromeFetcher) loadOnce(ctx context.Context, url string, opts Options) (*Document, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	loadCtx, cancelLoad := context.WithTimeout(browserCtx, f.cfg.Timeout)
	defer cancelLoad()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.Sleep(renderSettle),
	}
	if opts.ScrollToBottom {
		actions = append(actions, scrollToBottom())
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(loadCtx, actions...); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	return NewDocument(url, []byte(html))
}

// scrollToBottom scrolls the page in steps so lazy-loaded content has a
// chance to fire between scrolls.
func scrollToBottom() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for range scrollSteps {
			err := chromedp.Evaluate(`window.scrollBy(0, document.body.scrollHeight)`, nil).Do(ctx)
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(scrollPause):
			}
		}
		return nil
	})
}
