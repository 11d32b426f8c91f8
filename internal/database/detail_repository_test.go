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

func detailRows(description, isbn *string, pageCount *int, reviews int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "product_id", "description", "specs", "ratings_avg", "reviews_count",
		"isbn", "publisher", "publication_date", "page_count", "format", "recommendations",
		"created_at", "updated_at",
	}).AddRow("det-1", "prod-1", description, nil, nil, reviews,
		isbn, nil, nil, pageCount, nil, nil, now, now)
}

// The conflict clause coalesces absent fields against the stored row, so
// a partial rescrape never nulls out what an earlier full scrape found.
func TestDetailRepository_Upsert_PartialKeepsStoredFields(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := database.NewDetailRepository(mockDB)

	fullDesc := "A Philip Marlowe novel."
	isbn := "9780140108927"
	pages := 272

	mock.ExpectQuery(`isbn = COALESCE\(EXCLUDED\.isbn, product_detail\.isbn\)`).
		WillReturnRows(detailRows(&fullDesc, &isbn, &pages, 3))

	full := &domain.ProductDetail{
		ID:           "det-1",
		ProductID:    "prod-1",
		Description:  &fullDesc,
		ISBN:         &isbn,
		PageCount:    &pages,
		ReviewsCount: 3,
	}
	if err := repo.Upsert(context.Background(), full); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Second scrape only found a description; the merged row the database
	// returns still carries the earlier isbn and page count.
	partialDesc := "A Philip Marlowe novel, first of the series."
	mock.ExpectQuery(`isbn = COALESCE\(EXCLUDED\.isbn, product_detail\.isbn\)`).
		WillReturnRows(detailRows(&partialDesc, &isbn, &pages, 3))

	partial := &domain.ProductDetail{
		ID:           "det-ignored",
		ProductID:    "prod-1",
		Description:  &partialDesc,
		ReviewsCount: 3,
	}
	if err := repo.Upsert(context.Background(), partial); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if partial.ISBN == nil || *partial.ISBN != isbn {
		t.Errorf("isbn = %v, want stored %q preserved", partial.ISBN, isbn)
	}
	if partial.PageCount == nil || *partial.PageCount != pages {
		t.Errorf("page_count = %v, want stored %d preserved", partial.PageCount, pages)
	}
	if partial.Description == nil || *partial.Description != partialDesc {
		t.Errorf("description = %v, want updated value", partial.Description)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDetailRepository_GetByProductID_NotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := database.NewDetailRepository(mockDB)

	mock.ExpectQuery("FROM product_detail WHERE product_id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByProductID(context.Background(), "missing")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
