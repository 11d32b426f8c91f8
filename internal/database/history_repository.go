package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/crawler/internal/domain"
)

const historyColumns = `id, user_id, session_id, path_json, ip, user_agent, created_at`

// HistoryRepository handles database operations for browsing history.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history entry.
func (r *HistoryRepository) Create(ctx context.Context, entry *domain.ViewHistory) error {
	query := `
		INSERT INTO view_history (id, user_id, session_id, path_json, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.SessionID,
		entry.Path,
		entry.IP,
		entry.UserAgent,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	return nil
}

// ListBySession retrieves history entries for a session, newest first.
func (r *HistoryRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ViewHistory, error) {
	var entries []*domain.ViewHistory
	query := `SELECT ` + historyColumns + `
		FROM view_history
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &entries, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	if entries == nil {
		entries = []*domain.ViewHistory{}
	}

	return entries, nil
}
