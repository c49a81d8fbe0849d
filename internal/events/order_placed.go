package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedQueue     = "order.placed"
	OrderPlacedEventType = "OrderPlaced"
)

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPlaced is published once per persisted order, whatever its payment status.
type OrderPlaced struct {
	EventType   string            `json:"eventType"`
	OrderID     string            `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	Status      string            `json:"status"`
	Total       decimal.Decimal   `json:"total"`
	Items       []OrderPlacedItem `json:"items"`
	Timestamp   time.Time         `json:"timestamp"`
}
