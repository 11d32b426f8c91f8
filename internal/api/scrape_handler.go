package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
)

// Orchestrator runs scrape pipelines and manages their job records.
type Orchestrator interface {
	CreateJob(ctx context.Context, targetURL string, kind domain.TargetKind, targetID *string) (*domain.ScrapeJob, error)
	RunNavigation(ctx context.Context) (*domain.ScrapeJob, []*domain.Navigation, error)
	RunCategory(ctx context.Context, url string, navigationID, parentID *string) (*domain.ScrapeJob, []*domain.Category, error)
	RunProducts(ctx context.Context, url string, categoryID *string, page, limit int) (*domain.ScrapeJob, []*domain.Product, error)
	RunProductDetail(ctx context.Context, productID string) (*domain.ScrapeJob, *domain.ProductDetail, error)
}

// ScrapeHandler exposes synchronous scrape triggers and async job creation.
type ScrapeHandler struct {
	orchestrator Orchestrator
}

// NewScrapeHandler creates a scrape handler.
func NewScrapeHandler(orchestrator Orchestrator) *ScrapeHandler {
	return &ScrapeHandler{orchestrator: orchestrator}
}

// ScrapeNavigation handles POST /api/v1/scrape/navigation
func (h *ScrapeHandler) ScrapeNavigation(c *gin.Context) {
	job, items, err := h.orchestrator.RunNavigation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"job":   job,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":   job,
		"items": items,
	})
}

// ScrapeCategory handles POST /api/v1/scrape/categories
func (h *ScrapeHandler) ScrapeCategory(c *gin.Context) {
	var req ScrapeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	job, items, err := h.orchestrator.RunCategory(c.Request.Context(), req.URL, req.NavigationID, req.ParentID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"job":   job,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":   job,
		"items": items,
	})
}

// ScrapeProducts handles POST /api/v1/scrape/products
func (h *ScrapeHandler) ScrapeProducts(c *gin.Context) {
	var req ScrapeProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}

	job, items, err := h.orchestrator.RunProducts(c.Request.Context(), req.URL, req.CategoryID, req.Page, req.Limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"job":   job,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":   job,
		"items": items,
	})
}

// ScrapeProductDetail handles POST /api/v1/scrape/products/:id/detail
func (h *ScrapeHandler) ScrapeProductDetail(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	job, detail, err := h.orchestrator.RunProductDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"job":   job,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":    job,
		"detail": detail,
	})
}
