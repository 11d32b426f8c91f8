// Package domain provides domain models used across the application.
package domain

import (
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of a scrape job.
type JobStatus string

const (
	// JobStatusPending means the job has been created but not yet picked up.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning means a worker is executing the job.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted means the job finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed means the job finished with an error.
	JobStatusFailed JobStatus = "failed"
)

// IsValid reports whether s is a known job status.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is a terminal status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether the status machine allows moving from s
// to next. Status only moves forward: pending -> running -> {completed, failed}.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusRunning
	case JobStatusRunning:
		return next == JobStatusCompleted || next == JobStatusFailed
	case JobStatusCompleted, JobStatusFailed:
		return false
	default:
		return false
	}
}

// TargetKind represents the category of scrape target, determining which
// extractor and synchronizer apply.
type TargetKind string

const (
	// TargetNavigation scrapes top-level navigation headings.
	TargetNavigation TargetKind = "navigation"
	// TargetCategory scrapes category and subcategory listings.
	TargetCategory TargetKind = "category"
	// TargetProductList scrapes paginated product card grids.
	TargetProductList TargetKind = "product_list"
	// TargetProductDetail scrapes a single product's detail page.
	TargetProductDetail TargetKind = "product_detail"
)

// IsValid reports whether k is a known target kind.
func (k TargetKind) IsValid() bool {
	switch k {
	case TargetNavigation, TargetCategory, TargetProductList, TargetProductDetail:
		return true
	default:
		return false
	}
}

// ParseTargetKind converts a string into a TargetKind, validating it.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown target kind: %q", s)
	}
	return k, nil
}

// ScrapeJob is one tracked attempt to execute a scrape for a target.
//
// Invariants: StartedAt is set exactly once, on the pending->running
// transition; FinishedAt is set exactly once, on entry to a terminal
// status; status never moves backward.
type ScrapeJob struct {
	ID           string     `db:"id"              json:"id"`
	TargetURL    string     `db:"target_url"      json:"target_url"`
	TargetKind   TargetKind `db:"target_kind"     json:"target_kind"`
	TargetID     *string    `db:"target_id"       json:"target_id,omitempty"`
	Status       JobStatus  `db:"status"          json:"status"`
	StartedAt    *time.Time `db:"started_at"      json:"started_at,omitempty"`
	FinishedAt   *time.Time `db:"finished_at"     json:"finished_at,omitempty"`
	ErrorLog     *string    `db:"error_log"       json:"error_log,omitempty"`
	ItemsScraped int        `db:"items_scraped"   json:"items_scraped"`
	Metadata     JSONBMap   `db:"metadata"        json:"metadata,omitempty"`
	CreatedAt    time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"      json:"updated_at"`
}
