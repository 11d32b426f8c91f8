package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/crawler/internal/api"
	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
)

// mockNavStore implements database.NavigationStore.
type mockNavStore struct {
	navs []*domain.Navigation
}

func (m *mockNavStore) GetByID(context.Context, string) (*domain.Navigation, error) {
	return nil, errMockNoData
}

func (m *mockNavStore) GetBySlug(context.Context, string) (*domain.Navigation, error) {
	return nil, errMockNoData
}

func (m *mockNavStore) List(context.Context) ([]*domain.Navigation, error) {
	return m.navs, nil
}

func (m *mockNavStore) Upsert(context.Context, *domain.Navigation) error {
	return nil
}

// mockCategoryStore implements database.CategoryStore.
type mockCategoryStore struct {
	bySlug map[string]*domain.Category
}

func (m *mockCategoryStore) GetByID(context.Context, string) (*domain.Category, error) {
	return nil, errMockNoData
}

func (m *mockCategoryStore) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	cat, ok := m.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", slug, database.ErrNotFound)
	}
	return cat, nil
}

func (m *mockCategoryStore) List(context.Context, *string, *string) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.bySlug))
	for _, cat := range m.bySlug {
		out = append(out, cat)
	}
	return out, nil
}

func (m *mockCategoryStore) Upsert(context.Context, *domain.Category) error {
	return nil
}

// mockProductStore implements database.ProductStore.
type mockProductStore struct {
	byID map[string]*domain.Product
}

func (m *mockProductStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, database.ErrNotFound)
	}
	return p, nil
}

func (m *mockProductStore) GetBySourceID(context.Context, string) (*domain.Product, error) {
	return nil, errMockNoData
}

func (m *mockProductStore) List(context.Context, *string, int, int) ([]*domain.Product, int, error) {
	out := make([]*domain.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockProductStore) Upsert(context.Context, *domain.Product) error {
	return nil
}

func (m *mockProductStore) TouchLastScraped(context.Context, string) error {
	return nil
}

// mockDetailStore implements database.DetailStore.
type mockDetailStore struct {
	byProductID map[string]*domain.ProductDetail
}

func (m *mockDetailStore) GetByProductID(_ context.Context, productID string) (*domain.ProductDetail, error) {
	d, ok := m.byProductID[productID]
	if !ok {
		return nil, fmt.Errorf("detail for product %s: %w", productID, database.ErrNotFound)
	}
	return d, nil
}

func (m *mockDetailStore) Upsert(context.Context, *domain.ProductDetail) error {
	return nil
}

// mockReviewStore implements database.ReviewStore.
type mockReviewStore struct {
	byProductID map[string][]*domain.Review
}

func (m *mockReviewStore) Create(context.Context, *domain.Review) error {
	return nil
}

func (m *mockReviewStore) ListByProductID(_ context.Context, productID string, limit int) ([]*domain.Review, error) {
	reviews := m.byProductID[productID]
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

func newCatalogRouter(handler *api.CatalogHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/navigation", handler.ListNavigation)
	router.GET("/api/v1/categories/:slug", handler.GetCategory)
	router.GET("/api/v1/products/:id", handler.GetProduct)
	router.GET("/api/v1/products/:id/reviews", handler.ListProductReviews)
	return router
}

func newTestCatalogHandler(details *mockDetailStore) *api.CatalogHandler {
	navs := &mockNavStore{navs: []*domain.Navigation{
		{ID: "nav-1", Title: "Books", Slug: "books"},
	}}
	cats := &mockCategoryStore{bySlug: map[string]*domain.Category{
		"crime": {ID: "cat-1", Title: "Crime", Slug: "crime"},
	}}
	products := &mockProductStore{byID: map[string]*domain.Product{
		"prod-1": {ID: "prod-1", SourceID: "the-big-sleep", Title: "The Big Sleep", Currency: "GBP"},
	}}
	reviews := &mockReviewStore{byProductID: map[string][]*domain.Review{
		"prod-1": {{ID: "rev-1", ProductID: "prod-1", Rating: 4.5}},
	}}
	return api.NewCatalogHandler(navs, cats, products, details, reviews)
}

func TestCatalogHandler_ListNavigation(t *testing.T) {
	handler := newTestCatalogHandler(&mockDetailStore{})
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/navigation", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Navigation []*domain.Navigation `json:"navigation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Navigation) != 1 || resp.Navigation[0].Slug != "books" {
		t.Errorf("unexpected navigation payload: %+v", resp.Navigation)
	}
}

func TestCatalogHandler_GetCategory_NotFound(t *testing.T) {
	handler := newTestCatalogHandler(&mockDetailStore{})
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCatalogHandler_GetProduct_WithoutDetail(t *testing.T) {
	// No detail row yet: the product should still come back with a null detail.
	handler := newTestCatalogHandler(&mockDetailStore{})
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Product *domain.Product       `json:"product"`
		Detail  *domain.ProductDetail `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Product == nil || resp.Product.SourceID != "the-big-sleep" {
		t.Errorf("unexpected product payload: %+v", resp.Product)
	}
	if resp.Detail != nil {
		t.Errorf("expected null detail for unscraped product, got %+v", resp.Detail)
	}
}

func TestCatalogHandler_GetProduct_WithDetail(t *testing.T) {
	desc := "A Philip Marlowe novel."
	details := &mockDetailStore{byProductID: map[string]*domain.ProductDetail{
		"prod-1": {ID: "det-1", ProductID: "prod-1", Description: &desc, ReviewsCount: 1},
	}}
	handler := newTestCatalogHandler(details)
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Detail *domain.ProductDetail `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail == nil || resp.Detail.ProductID != "prod-1" {
		t.Errorf("expected detail row in payload, got %+v", resp.Detail)
	}
}

func TestCatalogHandler_GetProduct_NotFound(t *testing.T) {
	handler := newTestCatalogHandler(&mockDetailStore{})
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCatalogHandler_ListProductReviews(t *testing.T) {
	handler := newTestCatalogHandler(&mockDetailStore{})
	router := newCatalogRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Reviews []*domain.Review `json:"reviews"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Reviews) != 1 || resp.Reviews[0].Rating != 4.5 {
		t.Errorf("unexpected reviews payload: %+v", resp.Reviews)
	}
}
