package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/carepulse/intake-platform/internal/notify"
	"github.com/carepulse/intake-platform/pkg/logging"
)

const (
	receiveBatchSize   = 10
	receiveWaitSeconds = 20
	errorBackoff       = 5 * time.Second
)

// Deliverer consumes one decoded notification job.
type Deliverer interface {
	Deliver(ctx context.Context, job notify.Job) error
}

// Worker pulls notification jobs from the queue and hands them to the
// delivery service. A job is deleted from the queue whether or not delivery
// succeeded; delivery failures are logged, not retried.
type Worker struct {
	queue     notify.Queue
	deliverer Deliverer
	logger    *logging.Logger
	count     int
}

// New creates a worker pool over the given queue.
func New(queue notify.Queue, deliverer Deliverer, count int, logger *logging.Logger) *Worker {
	if queue == nil {
		panic("notifications: queue required")
	}
	if deliverer == nil {
		panic("notifications: deliverer required")
	}
	if count < 1 {
		count = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{queue: queue, deliverer: deliverer, logger: logger, count: count}
}

// Run starts the consumer goroutines and blocks until the context is
// cancelled and all of them have drained.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	w.logger.Info("notification worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopping", "worker", id)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, receiveBatchSize, receiveWaitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("notification worker stopping", "worker", id)
				return
			}
			w.logger.Error("failed to receive messages", "error", err, "worker", id)
			select {
			case <-ctx.Done():
				return
			case <-time.After(errorBackoff):
			}
			continue
		}

		for _, msg := range messages {
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg notify.Message) {
	job, err := notify.DecodeJob(msg.Body)
	if err != nil {
		w.logger.Error("dropping undecodable message", "error", err, "message_id", msg.ID)
	} else if err := w.deliverer.Deliver(ctx, job); err != nil {
		w.logger.Error("notification delivery failed", "error", err, "job_id", job.ID, "kind", job.Kind)
	}

	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Error("failed to delete message", "error", err, "message_id", msg.ID)
	}
}
