package api

import "github.com/shelfwise/crawler/internal/domain"

// ScrapeCategoryRequest triggers a category scrape.
type ScrapeCategoryRequest struct {
	URL          string  `json:"url" binding:"required"`
	NavigationID *string `json:"navigation_id,omitempty"`
	ParentID     *string `json:"parent_id,omitempty"`
}

// ScrapeProductsRequest triggers a product listing scrape.
type ScrapeProductsRequest struct {
	URL        string  `json:"url" binding:"required"`
	CategoryID *string `json:"category_id,omitempty"`
	Page       int     `json:"page,omitempty"`
	Limit      int     `json:"limit,omitempty"`
}

// CreateJobRequest enqueues a scrape job for asynchronous execution.
type CreateJobRequest struct {
	TargetURL  string            `json:"target_url" binding:"required"`
	TargetKind domain.TargetKind `json:"target_kind" binding:"required"`
	TargetID   *string           `json:"target_id,omitempty"`
}

// RecordHistoryRequest appends one browsing step for a session.
type RecordHistoryRequest struct {
	SessionID string         `json:"session_id" binding:"required"`
	UserID    *string        `json:"user_id,omitempty"`
	Path      map[string]any `json:"path" binding:"required"`
}

// SearchRequest is a full-text product search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit,omitempty"`
}
