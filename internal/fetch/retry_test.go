package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func shortenRetryInterval(t *testing.T) {
	t.Helper()

	saved := initialRetryInterval
	initialRetryInterval = time.Millisecond
	t.Cleanup(func() { initialRetryInterval = saved })
}

func TestLoadWithRetry_ExhaustsBudget(t *testing.T) {
	shortenRetryInterval(t)

	attempts := 0
	loadErr := errors.New("net::ERR_CONNECTION_REFUSED")

	_, err := loadWithRetry(context.Background(), 3, func(context.Context) (*Document, error) {
		attempts++
		return nil, loadErr
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want exactly the budget of 3", attempts)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error %q should name the exhausted budget", err)
	}
	if err == nil || !strings.Contains(err.Error(), loadErr.Error()) {
		t.Errorf("error %q should carry the last attempt's failure", err)
	}
}

func TestLoadWithRetry_SuccessMidBudget(t *testing.T) {
	shortenRetryInterval(t)

	want, docErr := NewDocument("https://example.com", []byte("<html><body>ok</body></html>"))
	if docErr != nil {
		t.Fatalf("NewDocument() error = %v", docErr)
	}

	attempts := 0
	doc, err := loadWithRetry(context.Background(), 3, func(context.Context) (*Document, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("timeout")
		}
		return want, nil
	})

	if err != nil {
		t.Fatalf("loadWithRetry() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2: success must stop retrying", attempts)
	}
	if doc != want {
		t.Error("returned document is not the one the attempt produced")
	}
}

func TestLoadWithRetry_FirstTrySuccess(t *testing.T) {
	shortenRetryInterval(t)

	want, docErr := NewDocument("https://example.com", []byte("<html></html>"))
	if docErr != nil {
		t.Fatalf("NewDocument() error = %v", docErr)
	}

	attempts := 0
	doc, err := loadWithRetry(context.Background(), 3, func(context.Context) (*Document, error) {
		attempts++
		return want, nil
	})

	if err != nil {
		t.Fatalf("loadWithRetry() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if doc.URL() != "https://example.com" {
		t.Errorf("URL() = %q, want the loaded address", doc.URL())
	}
}

func TestLoadWithRetry_ContextCancelStopsEarly(t *testing.T) {
	shortenRetryInterval(t)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	_, err := loadWithRetry(ctx, 5, func(context.Context) (*Document, error) {
		attempts++
		cancel()
		return nil, errors.New("timeout")
	})

	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1: cancellation must stop the budget", attempts)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()

	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}

	set := Config{Timeout: time.Second, MaxAttempts: 7, UserAgent: "bot/2.0"}.WithDefaults()
	if set.Timeout != time.Second || set.MaxAttempts != 7 || set.UserAgent != "bot/2.0" {
		t.Errorf("WithDefaults() overwrote explicit values: %+v", set)
	}
}
