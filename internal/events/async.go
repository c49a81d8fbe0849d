package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const drainTimeout = 5 * time.Second

var (
	ErrPublishQueueFull = errors.New("order event queue full")
	ErrPublisherClosed  = errors.New("order event publisher closed")
)

// AsyncPublisher hands events to a background goroutine so a slow broker
// never delays the caller. Publishing runs on its own context; the caller's
// cancellation does not reach the broker call.
type AsyncPublisher struct {
	next   Publisher
	events chan OrderPlaced
	done   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

func NewAsyncPublisher(next Publisher, size int) *AsyncPublisher {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &AsyncPublisher{
		next:   next,
		events: make(chan OrderPlaced, size),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.events {
		if err := p.next.PublishOrderPlaced(p.ctx, ev); err != nil {
			logger.L().Warn("failed to publish order placed event",
				zap.String("order_number", ev.OrderNumber),
				zap.Error(err),
			)
		}
	}
}

// PublishOrderPlaced queues ev and returns immediately. A full queue drops
// the event and reports ErrPublishQueueFull.
func (p *AsyncPublisher) PublishOrderPlaced(_ context.Context, ev OrderPlaced) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.events <- ev:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

// Close stops accepting events, waits up to drainTimeout for queued ones and
// then closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.events)
		p.mu.Unlock()

		timer := time.NewTimer(drainTimeout)
		defer timer.Stop()
		select {
		case <-p.done:
		case <-timer.C:
			logger.L().Warn("order event queue not drained", zap.Int("pending", len(p.events)))
			p.cancel()
			<-p.done
		}
		p.cancel()
		p.closeErr = p.next.Close()
	})
	return p.closeErr
}
