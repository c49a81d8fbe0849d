package order

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidCheckout = errors.New("invalid checkout payload")

	// -- Resource State --
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// -- Persistence --
	ErrCreateOrder = errors.New("failed to create order")
	ErrGetOrder    = errors.New("failed to get order")
)
