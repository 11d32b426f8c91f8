package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/crawler/internal/search"
)

const defaultSearchLimit = 10

// Searcher runs full-text product queries. Satisfied by the search
// indexer; nil when search is disabled.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// SearchHandler exposes product search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Search is not enabled",
		})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request payload",
		})
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	hits, err := h.searcher.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Search failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": hits,
		"total":   len(hits),
	})
}
