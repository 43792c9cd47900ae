package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is an in-process Queue for local development and tests.
type MemoryQueue struct {
	mu       sync.Mutex
	messages []Message
	notify   chan struct{}
}

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{notify: make(chan struct{}, 1)}
}

// Publish appends one job to the queue.
func (q *MemoryQueue) Publish(ctx context.Context, job Job) error {
	job, body, err := encodeJob(job)
	if err != nil {
		return err
	}

	q.mu.Lock()
	q.messages = append(q.messages, Message{
		ID:            job.ID,
		Body:          body,
		ReceiptHandle: uuid.NewString(),
	})
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Receive pops up to maxMessages entries, blocking up to waitSeconds when the
// queue is empty.
func (q *MemoryQueue) Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]Message, error) {
	deadline := time.After(time.Duration(waitSeconds) * time.Second)
	for {
		q.mu.Lock()
		if len(q.messages) > 0 {
			n := maxMessages
			if n > len(q.messages) {
				n = len(q.messages)
			}
			out := make([]Message, n)
			copy(out, q.messages[:n])
			q.messages = q.messages[n:]
			q.mu.Unlock()
			return out, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, nil
		case <-q.notify:
		}
	}
}

// Delete is a no-op: Receive already removed the message.
func (q *MemoryQueue) Delete(ctx context.Context, receiptHandle string) error {
	return nil
}

var _ Queue = (*MemoryQueue)(nil)
