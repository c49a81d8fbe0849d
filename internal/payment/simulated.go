package payment

import (
	"context"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const maskPrefix = "**** **** **** "

type simulatedGateway struct{}

// NewSimulatedGateway returns a Gateway that never contacts a processor.
// The outcome is chosen by the first character of the card number.
func NewSimulatedGateway() Gateway {
	return &simulatedGateway{}
}

func (g *simulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	status := DeriveStatus(req.CardNumber)
	summary := Summarize(req.CardNumber, req.ExpiryDate)

	logger.FromCtx(ctx).Info("simulated charge",
		zap.String("status", string(status)),
		zap.String("card_last4", summary.CardLast4),
		zap.String("amount", req.Amount.StringFixed(2)),
	)

	return &ChargeResult{Status: status, Summary: summary}, nil
}

// DeriveStatus maps the first character of the raw card number to an outcome:
// '1' approved, '2' declined, '3' error, anything else (including "") approved.
func DeriveStatus(cardNumber string) Status {
	if cardNumber == "" {
		return StatusApproved
	}
	switch cardNumber[0] {
	case '2':
		return StatusDeclined
	case '3':
		return StatusError
	default:
		return StatusApproved
	}
}

// Summarize keeps at most the last four digits of the card.
func Summarize(cardNumber, expiry string) Summary {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	last4 := digits
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}

	return Summary{
		MaskedCardNumber: maskPrefix + last4,
		CardLast4:        last4,
		ExpiryDate:       expiry,
	}
}
