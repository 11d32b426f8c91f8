// Package search maintains an optional Elasticsearch index of scraped
// products for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/logger"
)

// DefaultIndex is the product index name.
const DefaultIndex = "products"

const productMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "source_id":  {"type": "keyword"},
      "title":      {"type": "text"},
      "author":     {"type": "text"},
      "price":      {"type": "double"},
      "currency":   {"type": "keyword"},
      "source_url": {"type": "keyword"},
      "scraped_at": {"type": "date"}
    }
  }
}`

// ProductIndexer indexes products into Elasticsearch.
type ProductIndexer struct {
	client *es.Client
	index  string
	logger logger.Interface
}

// NewProductIndexer creates an indexer against the given index name.
// An empty name falls back to DefaultIndex.
func NewProductIndexer(client *es.Client, index string, log logger.Interface) *ProductIndexer {
	if index == "" {
		index = DefaultIndex
	}
	return &ProductIndexer{
		client: client,
		index:  index,
		logger: log.WithComponent("search"),
	}
}

// EnsureIndex creates the product index with its mapping if it does not
// already exist.
func (i *ProductIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists(
		[]string{i.index},
		i.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index %q: %w", i.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := i.client.Indices.Create(
		i.index,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(productMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %q: %w", i.index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index %q: %s", i.index, createRes.String())
	}

	i.logger.Info("created search index", "index", i.index)
	return nil
}

// IndexProduct upserts one product document keyed by the product id.
func (i *ProductIndexer) IndexProduct(ctx context.Context, p *domain.Product) error {
	doc := map[string]any{
		"id":         p.ID,
		"source_id":  p.SourceID,
		"title":      p.Title,
		"author":     p.Author,
		"price":      p.Price,
		"currency":   p.Currency,
		"source_url": p.SourceURL,
		"scraped_at": p.LastScrapedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal product %q: %w", p.ID, err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index product %q: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing product %q: %s", p.ID, res.String())
	}
	return nil
}

// IndexProducts indexes a batch, stopping on the first failure.
func (i *ProductIndexer) IndexProducts(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := i.IndexProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct removes a product document.
func (i *ProductIndexer) DeleteProduct(ctx context.Context, id string) error {
	res, err := i.client.Delete(
		i.index,
		id,
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete product %q: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("error deleting product %q: %s", id, res.String())
	}
	return nil
}

// Hit is one search result.
type Hit struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Search runs a multi-field match over title and author.
func (i *ProductIndexer) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title^2", "author"},
			},
		},
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(encoded)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{ID: h.Source.ID, Title: h.Source.Title, Score: h.Score})
	}
	return hits, nil
}

// NewClient builds an Elasticsearch client. Username and password may
// be empty for unauthenticated clusters.
func NewClient(addresses []string, username, password string) (*es.Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}
