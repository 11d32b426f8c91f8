package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfwise/crawler/internal/domain"
	"github.com/shelfwise/crawler/internal/queue"
)

func TestChannelQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := queue.NewChannelQueue(4)
	defer q.Close()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		msg := queue.Message{JobID: id, TargetKind: domain.TargetNavigation}
		if err := q.Enqueue(ctx, msg); err != nil {
			t.Fatalf("enqueue %q: %v", id, err)
		}
	}

	for _, want := range []string{"a", "b", "c"} {
		msg, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if msg.JobID != want {
			t.Errorf("got %q, want %q", msg.JobID, want)
		}
	}
}

func TestChannelQueue_DrainsAfterClose(t *testing.T) {
	t.Parallel()

	q := queue.NewChannelQueue(4)
	ctx := context.Background()

	if err := q.Enqueue(ctx, queue.Message{JobID: "pending-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	q.Close()

	msg, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("buffered message should survive close: %v", err)
	}
	if msg.JobID != "pending-1" {
		t.Errorf("got %q, want pending-1", msg.JobID)
	}

	if _, err := q.Dequeue(ctx); !errors.Is(err, queue.ErrClosed) {
		t.Errorf("drained closed queue should return ErrClosed, got %v", err)
	}
}

func TestChannelQueue_EnqueueAfterClose(t *testing.T) {
	t.Parallel()

	q := queue.NewChannelQueue(1)
	q.Close()

	err := q.Enqueue(context.Background(), queue.Message{JobID: "late"})
	if !errors.Is(err, queue.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestChannelQueue_DequeueHonorsContext(t *testing.T) {
	t.Parallel()

	q := queue.NewChannelQueue(1)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline error, got %v", err)
	}
}

func TestChannelQueue_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	q := queue.NewChannelQueue(1)
	q.Close()
	q.Close()
}
