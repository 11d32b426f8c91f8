package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfwise/crawler/internal/database"
	"github.com/shelfwise/crawler/internal/domain"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
)

// JobsHandler handles job-related HTTP requests.
type JobsHandler struct {
	jobs         database.JobStore
	orchestrator Orchestrator
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(jobs database.JobStore, orchestrator Orchestrator) *JobsHandler {
	return &JobsHandler{jobs: jobs, orchestrator: orchestrator}
}

// ListJobs handles GET /api/v1/jobs
func (h *JobsHandler) ListJobs(c *gin.Context) {
	status := domain.JobStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status filter",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultOffset)))
	if err != nil || offset < 0 {
		offset = defaultOffset
	}

	jobs, err := h.jobs.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve jobs",
		})
		return
	}

	total, err := h.jobs.Count(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get total count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": total,
	})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobsHandler) GetJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" || id == "undefined" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid job ID",
		})
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve job",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJob handles POST /api/v1/jobs
func (h *JobsHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if !req.TargetKind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid target kind",
		})
		return
	}

	// target_id is stored in a uuid column; reject malformed values here
	// instead of surfacing a database error.
	if req.TargetID != nil {
		if _, err := uuid.Parse(*req.TargetID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid target ID",
			})
			return
		}
	}

	job, err := h.orchestrator.CreateJob(c.Request.Context(), req.TargetURL, req.TargetKind, req.TargetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create job: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}
