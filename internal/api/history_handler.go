package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
)

const defaultHistoryLimit = 100

// HistoryHandler records and serves session browsing history.
type HistoryHandler struct {
	history database.HistoryStore
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(history database.HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// RecordStep handles POST /api/v1/history
func (h *HistoryHandler) RecordStep(c *gin.Context) {
	var req RecordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	entry := &domain.ViewHistory{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Path:      req.Path,
	}

	if ip := c.ClientIP(); ip != "" {
		entry.IP = &ip
	}
	if ua := c.Request.UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}

	if err := h.history.Create(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record history",
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListSession handles GET /api/v1/history/:session_id
func (h *HistoryHandler) ListSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := h.history.ListBySession(c.Request.Context(), sessionID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
