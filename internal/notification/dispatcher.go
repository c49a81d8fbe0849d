package notification

import (
	"context"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"go.uber.org/zap"
)

const (
	defaultRetries    = 1
	defaultRetryDelay = 2 * time.Second
)

// Dispatcher sends a message, retrying once after a fixed delay.
type Dispatcher struct {
	sender  Sender
	retries int
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error

	sent   *metrics.Counter
	failed *metrics.Counter
}

func NewDispatcher(sender Sender, reg *metrics.Registry) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		retries: defaultRetries,
		delay:   defaultRetryDelay,
		sleep:   sleepCtx,
		sent:    reg.Counter("notifications_sent"),
		failed:  reg.Counter("notifications_failed"),
	}
}

// Send reports whether the message was delivered. Failures are logged, never returned.
func (d *Dispatcher) Send(ctx context.Context, msg Message) bool {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", msg.OrderNumber),
		zap.String("kind", string(msg.Kind)),
	)

	for attempt := 0; attempt <= d.retries; attempt++ {
		err := d.sender.Send(ctx, msg)
		if err == nil {
			log.Info("notification sent", zap.Int("attempt", attempt+1))
			d.sent.Inc()
			return true
		}

		log.Warn("notification attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))

		if attempt < d.retries {
			if err := d.sleep(ctx, d.delay); err != nil {
				break
			}
		}
	}

	log.Error("notification dropped", zap.Error(ErrSendExhausted), zap.Int("attempts", d.retries+1))
	d.failed.Inc()
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
