package payment

import "github.com/shopspring/decimal"

type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusError    Status = "error"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusError:
		return true
	}
	return false
}

type ChargeRequest struct {
	CardNumber string
	ExpiryDate string
	CVV        string
	Amount     decimal.Decimal
}

// Summary is what may be stored about a card. The CVV never appears here.
type Summary struct {
	MaskedCardNumber string `json:"maskedCardNumber"`
	CardLast4        string `json:"cardLast4"`
	ExpiryDate       string `json:"expiryDate"`
}

type ChargeResult struct {
	Status  Status
	Summary Summary
}
