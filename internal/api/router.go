// Package api implements the HTTP API for the catalog scraper.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/crawler/internal/logger"
)

// Handlers bundles the route handlers mounted by the router.
type Handlers struct {
	Scrape  *ScrapeHandler
	Jobs    *JobsHandler
	Catalog *CatalogHandler
	History *HistoryHandler
	Search  *SearchHandler
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	v1.POST("/scrape/navigation", h.Scrape.ScrapeNavigation)
	v1.POST("/scrape/categories", h.Scrape.ScrapeCategory)
	v1.POST("/scrape/products", h.Scrape.ScrapeProducts)
	v1.POST("/scrape/products/:id/detail", h.Scrape.ScrapeProductDetail)

	v1.GET("/jobs", h.Jobs.ListJobs)
	v1.POST("/jobs", h.Jobs.CreateJob)
	v1.GET("/jobs/:id", h.Jobs.GetJob)

	v1.GET("/navigation", h.Catalog.ListNavigation)
	v1.GET("/categories", h.Catalog.ListCategories)
	v1.GET("/categories/:slug", h.Catalog.GetCategory)
	v1.GET("/products", h.Catalog.ListProducts)
	v1.GET("/products/:id", h.Catalog.GetProduct)
	v1.GET("/products/:id/reviews", h.Catalog.ListProductReviews)

	v1.POST("/history", h.History.RecordStep)
	v1.GET("/history/:session_id", h.History.ListSession)

	if h.Search != nil {
		v1.POST("/search", h.Search.Search)
	}

	return router
}

// loggingMiddleware logs HTTP requests through the structured logger.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
