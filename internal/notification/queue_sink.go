package notification

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/metrics"
)

// ErrQueueFull is returned by QueueSink.Send when the buffer has no room.
var ErrQueueFull = errors.New("notification queue full")

// ErrQueueClosed is returned by QueueSink.Send after Stop.
var ErrQueueClosed = errors.New("notification queue closed")

type job struct {
	contact string
	reasons []string
}

// QueueSink decouples alert delivery from the request path. Send only
// enqueues; a background worker forwards each job to the wrapped sink.
// A full buffer drops the job instead of blocking the caller.
type QueueSink struct {
	next   Sink
	jobs   chan job
	logger zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewQueueSink(next Sink, buffer int, logger zerolog.Logger) *QueueSink {
	if buffer < 1 {
		buffer = 1
	}
	return &QueueSink{
		next:   next,
		jobs:   make(chan job, buffer),
		logger: logger.With().Str("component", "notification-queue").Logger(),
	}
}

// Start launches the worker. Delivery uses ctx; cancelling it aborts
// in-flight sends but Stop still drains what is queued.
func (q *QueueSink) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for j := range q.jobs {
			if err := q.next.Send(ctx, j.contact, j.reasons); err != nil {
				metrics.NotificationFailures.WithLabelValues("deliver").Inc()
				q.logger.Error().Err(err).Str("contact", j.contact).Msg("failed to deliver alert notification")
			}
		}
		q.logger.Debug().Msg("notification worker stopped")
	}()
}

func (q *QueueSink) Send(_ context.Context, contact string, reasons []string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	copied := make([]string, len(reasons))
	copy(copied, reasons)
	select {
	case q.jobs <- job{contact: contact, reasons: copied}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for the worker to drain it.
func (q *QueueSink) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	started := q.started
	q.mu.Unlock()

	if started {
		q.wg.Wait()
	}
}
