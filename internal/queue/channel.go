package queue

import (
	"context"
	"sync"
)

// DefaultCapacity is the buffer size used when none is configured.
const DefaultCapacity = 256

// ChannelQueue is an in-process Queue backed by a buffered channel.
type ChannelQueue struct {
	ch        chan Message
	closeOnce sync.Once
	done      chan struct{}
}

// NewChannelQueue creates a channel queue with the given capacity.
func NewChannelQueue(capacity int) *ChannelQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ChannelQueue{
		ch:   make(chan Message, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue adds a message, blocking while the buffer is full.
func (q *ChannelQueue) Enqueue(ctx context.Context, msg Message) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.ch <- msg:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue removes the next message, blocking until one arrives.
func (q *ChannelQueue) Dequeue(ctx context.Context) (Message, error) {
	// Drain buffered messages even after Close.
	select {
	case msg := <-q.ch:
		return msg, nil
	default:
	}

	select {
	case msg := <-q.ch:
		return msg, nil
	case <-q.done:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Close stops the queue. Safe to call more than once.
func (q *ChannelQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

var _ Queue = (*ChannelQueue)(nil)
