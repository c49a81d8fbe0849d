package validation

import (
	"strings"
	"time"
)

// CheckoutForm is the customer, address and payment data typed into the checkout form.
type CheckoutForm struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Errors maps a form field to a human-readable message. Empty means valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Formatted applies the input masks the checkout form uses while typing:
// card digits grouped by four, expiry as MM/YY.
func (f CheckoutForm) Formatted() CheckoutForm {
	f.CardNumber = FormatCardNumber(f.CardNumber)
	f.ExpiryDate = FormatExpiryDate(f.ExpiryDate)
	return f
}

// ValidateCheckout runs every field check and collects all failures.
func ValidateCheckout(f CheckoutForm, now time.Time) Errors {
	errs := Errors{}

	required := func(field, value, msg string) bool {
		if strings.TrimSpace(value) == "" {
			errs[field] = msg
			return false
		}
		return true
	}

	required("fullName", f.FullName, "Full name is required")

	if required("email", f.Email, "Email is required") && !IsValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email"
	}
	if required("phone", f.Phone, "Phone number is required") && !IsValidPhone(f.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}

	required("address", f.Address, "Address is required")
	required("city", f.City, "City is required")
	required("state", f.State, "State is required")

	if required("zipCode", f.ZipCode, "Zip code is required") && !IsValidZipCode(f.ZipCode) {
		errs["zipCode"] = "Zip code must be 5 to 7 digits"
	}

	if required("cardNumber", f.CardNumber, "Card number is required") && !IsValidCardNumber(f.CardNumber) {
		errs["cardNumber"] = "Enter '1', '2', '3' for simulation, or a valid 16-digit card number."
	}

	if required("expiryDate", f.ExpiryDate, "Expiry date is required") {
		switch month, _, _ := splitExpiry(f.ExpiryDate); {
		case !expiryRegex.MatchString(f.ExpiryDate):
			errs["expiryDate"] = "Invalid format, use MM/YY"
		case month < 1 || month > 12:
			errs["expiryDate"] = "Invalid month in expiry date."
		case !IsValidExpiryDate(f.ExpiryDate, now):
			errs["expiryDate"] = "Expiry date cannot be in the past."
		}
	}

	if required("cvv", f.CVV, "CVV is required") && !IsValidCVV(f.CVV) {
		errs["cvv"] = "Valid 3-digit CVV required"
	}

	return errs
}
