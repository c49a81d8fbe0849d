package order

import (
	"time"

	"storefront-be/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// PaymentInfo is the card data submitted at checkout. It is never stored as is.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type Item struct {
	ProductID     string          `json:"productId"`
	VariantID     string          `json:"variantId"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	ProductName   string          `json:"productName,omitempty"`
	ProductImage  string          `json:"productImage,omitempty"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// Order is created once at checkout and never updated.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	Status       payment.Status  `json:"status"`
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	PaymentInfo  payment.Summary `json:"paymentInfo"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type CheckoutRequest struct {
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	PaymentInfo  PaymentInfo     `json:"paymentInfo"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type CheckoutResult struct {
	Status      payment.Status `json:"status"`
	OrderNumber string         `json:"orderNumber"`
}
