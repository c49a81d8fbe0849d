package payment

import "context"

// Gateway authorizes a card payment. Only the simulated gateway exists; the
// interface keeps the checkout flow independent of it.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
