package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/crawler/internal/database"
)

const defaultReviewLimit = 20

// CatalogHandler serves the stored catalog: navigation headings,
// categories, products and their details.
type CatalogHandler struct {
	navigations database.NavigationStore
	categories  database.CategoryStore
	products    database.ProductStore
	details     database.DetailStore
	reviews     database.ReviewStore
}

// NewCatalogHandler creates a catalog read handler.
func NewCatalogHandler(
	navigations database.NavigationStore,
	categories database.CategoryStore,
	products database.ProductStore,
	details database.DetailStore,
	reviews database.ReviewStore,
) *CatalogHandler {
	return &CatalogHandler{
		navigations: navigations,
		categories:  categories,
		products:    products,
		details:     details,
		reviews:     reviews,
	}
}

// ListNavigation handles GET /api/v1/navigation
func (h *CatalogHandler) ListNavigation(c *gin.Context) {
	navs, err := h.navigations.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve navigation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"navigation": navs})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var navigationID, parentID *string
	if v := c.Query("navigation_id"); v != "" {
		navigationID = &v
	}
	if v := c.Query("parent_id"); v != "" {
		parentID = &v
	}

	cats, err := h.categories.List(c.Request.Context(), navigationID, parentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GetCategory handles GET /api/v1/categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	slug := c.Param("slug")

	cat, err := h.categories.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve category",
		})
		return
	}

	c.JSON(http.StatusOK, cat)
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var categoryID *string
	if v := c.Query("category_id"); v != "" {
		categoryID = &v
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultOffset)))
	if err != nil || offset < 0 {
		offset = defaultOffset
	}

	products, total, err := h.products.List(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// GetProduct handles GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return
	}

	// The detail row is optional; a product may not have been
	// detail-scraped yet.
	detail, err := h.details.GetByProductID(c.Request.Context(), id)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product detail",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"detail":  detail,
	})
}

// ListProductReviews handles GET /api/v1/products/:id/reviews
func (h *CatalogHandler) ListProductReviews(c *gin.Context) {
	id := c.Param("id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultReviewLimit)))
	if err != nil || limit <= 0 {
		limit = defaultReviewLimit
	}

	reviews, err := h.reviews.ListByProductID(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reviews",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
