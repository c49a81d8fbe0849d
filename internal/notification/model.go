package notification

import (
	"storefront-be/internal/payment"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindDeclined     Kind = "declined"
	KindGatewayError Kind = "gateway_error"
)

// KindFor selects the template for a payment outcome.
func KindFor(status payment.Status) Kind {
	switch status {
	case payment.StatusDeclined:
		return KindDeclined
	case payment.StatusError:
		return KindGatewayError
	default:
		return KindConfirmation
	}
}

type Item struct {
	ProductName   string
	SelectedSize  string
	SelectedColor string
	Quantity      int
	Price         decimal.Decimal
}

type Address struct {
	Address string
	City    string
	State   string
	ZipCode string
}

// OrderData is the view of a persisted order the templates render.
type OrderData struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []Item
	Total         decimal.Decimal
	Address       Address
}

type Message struct {
	Kind        Kind
	OrderNumber string
	To          string
	Subject     string
	Body        string
}
