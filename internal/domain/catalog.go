package domain

import (
	"time"
)

// Navigation is a top-level navigation heading scraped from the source
// site. Slug is the natural key.
type Navigation struct {
	ID            string     `db:"id"              json:"id"`
	Title         string     `db:"title"           json:"title"`
	Slug          string     `db:"slug"            json:"slug"`
	Description   *string    `db:"description"     json:"description,omitempty"`
	SourceURL     *string    `db:"source_url"      json:"source_url,omitempty"`
	LastScrapedAt *time.Time `db:"last_scraped_at" json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"      json:"updated_at"`
}

// Category is a category or subcategory. Slug is the natural key;
// NavigationID and ParentID are foreign keys owned by storage and only
// ever set from values the caller passes in.
type Category struct {
	ID            string     `db:"id"              json:"id"`
	NavigationID  *string    `db:"navigation_id"   json:"navigation_id,omitempty"`
	ParentID      *string    `db:"parent_id"       json:"parent_id,omitempty"`
	Title         string     `db:"title"           json:"title"`
	Slug          string     `db:"slug"            json:"slug"`
	Description   *string    `db:"description"     json:"description,omitempty"`
	ProductCount  int        `db:"product_count"   json:"product_count"`
	SourceURL     *string    `db:"source_url"      json:"source_url,omitempty"`
	LastScrapedAt *time.Time `db:"last_scraped_at" json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"      json:"updated_at"`
}

// Product is one catalog product. SourceID is the natural key, derived
// from the trailing path segment of the product's source URL.
type Product struct {
	ID            string     `db:"id"              json:"id"`
	SourceID      string     `db:"source_id"       json:"source_id"`
	CategoryID    *string    `db:"category_id"     json:"category_id,omitempty"`
	Title         string     `db:"title"           json:"title"`
	Author        *string    `db:"author"          json:"author,omitempty"`
	Price         *float64   `db:"price"           json:"price,omitempty"`
	Currency      string     `db:"currency"        json:"currency"`
	ImageURL      *string    `db:"image_url"       json:"image_url,omitempty"`
	SourceURL     string     `db:"source_url"      json:"source_url"`
	Availability  *string    `db:"availability"    json:"availability,omitempty"`
	Condition     *string    `db:"condition"       json:"condition,omitempty"`
	LastScrapedAt *time.Time `db:"last_scraped_at" json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"      json:"updated_at"`
}

// ProductDetail holds the extended fields scraped from a product's detail
// page. ProductID is the natural key (1:1 with Product).
type ProductDetail struct {
	ID              string     `db:"id"               json:"id"`
	ProductID       string     `db:"product_id"       json:"product_id"`
	Description     *string    `db:"description"      json:"description,omitempty"`
	Specs           JSONBMap   `db:"specs"            json:"specs,omitempty"`
	RatingsAvg      *float64   `db:"ratings_avg"      json:"ratings_avg,omitempty"`
	ReviewsCount    int        `db:"reviews_count"    json:"reviews_count"`
	ISBN            *string    `db:"isbn"             json:"isbn,omitempty"`
	Publisher       *string    `db:"publisher"        json:"publisher,omitempty"`
	PublicationDate *string    `db:"publication_date" json:"publication_date,omitempty"`
	PageCount       *int       `db:"page_count"       json:"page_count,omitempty"`
	Format          *string    `db:"format"           json:"format,omitempty"`
	Recommendations JSONBSlice `db:"recommendations"  json:"recommendations,omitempty"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updated_at"`
}

// Review is one customer review. Reviews are append-only; repeated detail
// scrapes insert new rows rather than upserting.
type Review struct {
	ID               string     `db:"id"                json:"id"`
	ProductID        string     `db:"product_id"        json:"product_id"`
	Author           *string    `db:"author"            json:"author,omitempty"`
	Rating           float64    `db:"rating"            json:"rating"`
	Text             *string    `db:"text"              json:"text,omitempty"`
	Title            *string    `db:"title"             json:"title,omitempty"`
	ReviewDate       *time.Time `db:"review_date"       json:"review_date,omitempty"`
	VerifiedPurchase bool       `db:"verified_purchase" json:"verified_purchase"`
	HelpfulCount     int        `db:"helpful_count"     json:"helpful_count"`
	CreatedAt        time.Time  `db:"created_at"        json:"created_at"`
}

// ViewHistory records one browsing step for session path reconstruction.
type ViewHistory struct {
	ID        string    `db:"id"         json:"id"`
	UserID    *string   `db:"user_id"    json:"user_id,omitempty"`
	SessionID string    `db:"session_id" json:"session_id"`
	Path      JSONBMap  `db:"path_json"  json:"path_json"`
	IP        *string   `db:"ip"         json:"ip,omitempty"`
	UserAgent *string   `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
