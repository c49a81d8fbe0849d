package notification

import (
	"context"
	"sync"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"go.uber.org/zap"
)

// Queue runs dispatches on a fixed pool of workers so checkout never waits on mail.
type Queue struct {
	dispatcher *Dispatcher
	jobs       chan Message
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	dropped *metrics.Counter
}

func NewQueue(d *Dispatcher, workers, size int, reg *metrics.Registry) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}

	q := &Queue{
		dispatcher: d,
		jobs:       make(chan Message, size),
		dropped:    reg.Counter("notifications_dropped"),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work(i)
	}
	return q
}

// Enqueue never blocks. A full or closed queue drops the message and returns false.
func (q *Queue) Enqueue(msg Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		logger.L().Warn("notification dropped", zap.Error(ErrQueueClosed), zap.String("order_number", msg.OrderNumber))
		q.dropped.Inc()
		return false
	}

	select {
	case q.jobs <- msg:
		return true
	default:
		logger.L().Warn("notification queue full, dropping", zap.String("order_number", msg.OrderNumber))
		q.dropped.Inc()
		return false
	}
}

// Close stops intake and waits for queued messages to drain or ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work(id int) {
	defer q.wg.Done()

	// detached from any request so cancellation cannot cut the retry short
	ctx := context.Background()
	for msg := range q.jobs {
		if !q.dispatcher.Send(ctx, msg) {
			logger.L().Debug("worker gave up on message", zap.Int("worker", id), zap.String("order_number", msg.OrderNumber))
		}
	}
}
