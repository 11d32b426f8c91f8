// Package queue decouples scrape job creation from execution. The core
// depends only on the Queue interface; the in-process channel
// implementation serves single-node deployments, and a broker-backed
// implementation can be swapped in without touching callers.
package queue

import (
	"context"
	"errors"

	"github.com/shelfwise/crawler/internal/domain"
)

// ErrClosed is returned by Dequeue once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Message is one unit of scrape work.
type Message struct {
	JobID      string            `json:"job_id"`
	TargetURL  string            `json:"target_url"`
	TargetKind domain.TargetKind `json:"target_kind"`
	TargetID   *string           `json:"target_id,omitempty"`
}

// Queue enqueues and dequeues scrape work.
type Queue interface {
	// Enqueue adds a message, blocking while the queue is at capacity.
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue removes the next message, blocking until one is available,
	// the context is canceled, or the queue is closed (ErrClosed).
	Dequeue(ctx context.Context) (Message, error)
	// Close stops the queue; queued messages can still be drained.
	Close()
}
