// Package catalog reconciles extracted records into storage, keyed by
// natural keys, and decides when stored entities are due for rescraping.
package catalog

import "time"

// DefaultTTL is the staleness window applied when callers pass no TTL.
const DefaultTTL = time.Hour

// ShouldRescrape reports whether an entity's cached scrape is too old to
// serve. True when the entity has never been scraped, or when more than
// ttl has passed since the last scrape. Pure; callers decide whether to
// act on the answer.
func ShouldRescrape(lastScrapedAt *time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if lastScrapedAt == nil {
		return true
	}
	return time.Since(*lastScrapedAt) > ttl
}
