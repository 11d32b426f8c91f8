package catalog_test

import (
	"testing"
	"time"

	"github.com/shelfwise/crawler/internal/catalog"
)

func TestShouldRescrape_NeverScraped(t *testing.T) {
	t.Parallel()

	if !catalog.ShouldRescrape(nil, time.Hour) {
		t.Error("entity never scraped should be due")
	}
}

func TestShouldRescrape_Fresh(t *testing.T) {
	t.Parallel()

	now := time.Now()
	if catalog.ShouldRescrape(&now, time.Hour) {
		t.Error("just-scraped entity should not be due")
	}

	recent := time.Now().Add(-30 * time.Minute)
	if catalog.ShouldRescrape(&recent, time.Hour) {
		t.Error("entity inside the TTL should not be due")
	}
}

func TestShouldRescrape_Stale(t *testing.T) {
	t.Parallel()

	stale := time.Now().Add(-3601 * time.Second)
	if !catalog.ShouldRescrape(&stale, 3600*time.Second) {
		t.Error("entity one second past the TTL should be due")
	}
}

func TestShouldRescrape_ZeroTTLUsesDefault(t *testing.T) {
	t.Parallel()

	recent := time.Now().Add(-30 * time.Minute)
	if catalog.ShouldRescrape(&recent, 0) {
		t.Error("zero TTL should fall back to the default window")
	}

	old := time.Now().Add(-2 * time.Hour)
	if !catalog.ShouldRescrape(&old, 0) {
		t.Error("entity past the default window should be due")
	}
}
