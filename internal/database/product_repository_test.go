package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
)

func productRows(id, sourceID string, scraped time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "source_id", "category_id", "title", "author", "price", "currency",
		"image_url", "source_url", "availability", "condition", "last_scraped_at",
		"created_at", "updated_at",
	}).AddRow(id, sourceID, nil, "The Great Gatsby", nil, 12.99, "GBP",
		nil, "/product/"+sourceID, "In Stock", "Used - Good", scraped, now, now)
}

func TestProductRepository_Upsert_ScansRowBack(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := database.NewProductRepository(mockDB)

	scraped := time.Now()

	// The conflict clause keeps the stored identity; the returned row may
	// carry a different id than the one we tried to insert.
	mock.ExpectQuery("ON CONFLICT \\(source_id\\) DO UPDATE").
		WillReturnRows(productRows("existing-id", "the-great-gatsby", scraped))

	p := &domain.Product{
		ID:        "new-id",
		SourceID:  "the-great-gatsby",
		Title:     "The Great Gatsby",
		Currency:  "GBP",
		SourceURL: "/product/the-great-gatsby",
	}

	if err := repo.Upsert(context.Background(), p); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if p.ID != "existing-id" {
		t.Errorf("id = %q, want stored identity %q", p.ID, "existing-id")
	}
	if p.Price == nil || *p.Price != 12.99 {
		t.Errorf("price not scanned back: %v", p.Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_GetBySourceID_NotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := database.NewProductRepository(mockDB)

	mock.ExpectQuery("FROM product WHERE source_id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBySourceID(context.Background(), "missing")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_TouchLastScraped_NotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := database.NewProductRepository(mockDB)

	mock.ExpectExec("UPDATE product SET last_scraped_at").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TouchLastScraped(context.Background(), "missing")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound for zero rows, got %v", err)
	}
}
