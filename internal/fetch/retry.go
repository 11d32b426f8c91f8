package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// initialRetryInterval spaces the first retry; tests shorten it.
var initialRetryInterval = 2 * time.Second

// loadWithRetry runs one load attempt up to maxAttempts times, spacing
// attempts with exponential backoff. The budget is fixed: once exhausted,
// the last error is surfaced wrapped in ErrFetchFailed.
func loadWithRetry(
	ctx context.Context,
	maxAttempts int,
	attempt func(ctx context.Context) (*Document, error),
) (*Document, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryInterval

	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(maxAttempts-1)),
		ctx,
	)

	var doc *Document
	operation := func() error {
		d, err := attempt(ctx)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrFetchFailed, maxAttempts, err)
	}

	return doc, nil
}
