package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/notification"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

const maxOrderNumberAttempts = 3

// Notifier accepts a message for background delivery without blocking.
type Notifier interface {
	Enqueue(msg notification.Message) bool
}

type Service interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
}

type service struct {
	repo      Repository
	gateway   payment.Gateway
	notifier  Notifier
	publisher events.Publisher
	metrics   *metrics.Registry
	now       func() time.Time
}

func NewService(
	repo Repository,
	gateway payment.Gateway,
	notifier Notifier,
	publisher events.Publisher,
	reg *metrics.Registry,
) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:      repo,
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		metrics:   reg,
		now:       time.Now,
	}
}

// Checkout charges the simulated gateway, persists the order whatever the
// outcome and queues exactly one customer notification. The submitted total
// is stored as sent.
func (s *service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	if err := checkStructure(req); err != nil {
		log.Warn("rejecting malformed checkout", zap.Error(err))
		s.metrics.Counter("checkout_failed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCreateOrder, err)
	}

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		CardNumber: req.PaymentInfo.CardNumber,
		ExpiryDate: req.PaymentInfo.ExpiryDate,
		CVV:        req.PaymentInfo.CVV,
		Amount:     req.Total,
	})
	if err != nil {
		log.Error("payment gateway failed", zap.Error(err))
		s.metrics.Counter("checkout_failed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCreateOrder, err)
	}

	o := &Order{
		Status:       charge.Status,
		CustomerInfo: req.CustomerInfo,
		PaymentInfo:  charge.Summary,
		Items:        req.Items,
		Total:        req.Total,
	}

	if err := s.persist(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		s.metrics.Counter("checkout_failed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCreateOrder, err)
	}

	log = log.With(zap.String("order_number", o.OrderNumber), zap.String("status", string(o.Status)))
	log.Info("order placed")
	s.metrics.Counter("orders_" + string(o.Status)).Inc()

	s.notify(ctx, o)

	if err := s.publisher.PublishOrderPlaced(ctx, toOrderPlaced(o)); err != nil {
		log.Warn("failed to publish order placed event", zap.Error(err))
	}

	return &CheckoutResult{Status: o.Status, OrderNumber: o.OrderNumber}, nil
}

// persist draws a fresh order number for each attempt until the insert
// does not collide with an existing one.
func (s *service) persist(ctx context.Context, o *Order) error {
	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		o.OrderNumber = utils.GenerateOrderNumber(s.now())

		err = s.repo.Create(ctx, o)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			return err
		}
		logger.FromCtx(ctx).Warn("order number collision, regenerating",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}
	return err
}

func (s *service) notify(ctx context.Context, o *Order) {
	msg, err := notification.Compose(notification.KindFor(o.Status), toNotificationData(o))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to compose notification", zap.String("order_number", o.OrderNumber), zap.Error(err))
		return
	}
	if s.notifier != nil {
		s.notifier.Enqueue(msg)
	}
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrGetOrder, err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func checkStructure(req CheckoutRequest) error {
	switch {
	case strings.TrimSpace(req.CustomerInfo.FullName) == "":
		return fmt.Errorf("%w: customerInfo.fullName is required", ErrInvalidCheckout)
	case strings.TrimSpace(req.CustomerInfo.Email) == "":
		return fmt.Errorf("%w: customerInfo.email is required", ErrInvalidCheckout)
	case req.PaymentInfo.CardNumber == "":
		return fmt.Errorf("%w: paymentInfo.cardNumber is required", ErrInvalidCheckout)
	case len(req.Items) == 0:
		return fmt.Errorf("%w: at least one item is required", ErrInvalidCheckout)
	}

	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidCheckout, i)
		}
	}
	return nil
}
