package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func validForm() CheckoutForm {
	return CheckoutForm{
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "(555) 123-4567",
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "IL",
		ZipCode:    "62701",
		CardNumber: "2",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func TestValidateCheckout(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := ValidateCheckout(validForm(), now)

		assert.True(t, errs.Valid())
		assert.Empty(t, errs)
	})

	t.Run("AllRequiredMissing", func(t *testing.T) {
		errs := ValidateCheckout(CheckoutForm{FullName: "   "}, now)

		assert.Len(t, errs, 10)
		assert.Equal(t, "Full name is required", errs["fullName"])
		assert.Equal(t, "Email is required", errs["email"])
		assert.Equal(t, "CVV is required", errs["cvv"])
	})

	t.Run("MissingEmailOnly", func(t *testing.T) {
		f := validForm()
		f.Email = ""

		errs := ValidateCheckout(f, now)

		assert.Equal(t, Errors{"email": "Email is required"}, errs)
	})

	t.Run("ShapeErrors", func(t *testing.T) {
		f := validForm()
		f.Email = "jane@example"
		f.Phone = "12345"
		f.ZipCode = "1234"
		f.CardNumber = "4"
		f.CVV = "12"

		errs := ValidateCheckout(f, now)

		assert.Equal(t, "Please enter a valid email", errs["email"])
		assert.Equal(t, "Please enter a valid phone number", errs["phone"])
		assert.Equal(t, "Zip code must be 5 to 7 digits", errs["zipCode"])
		assert.Contains(t, errs["cardNumber"], "16-digit")
		assert.Equal(t, "Valid 3-digit CVV required", errs["cvv"])
	})

	t.Run("ExpiryMessages", func(t *testing.T) {
		cases := map[string]string{
			"1227":  "Invalid format, use MM/YY",
			"13/27": "Invalid month in expiry date.",
			"09/26": "Expiry date cannot be in the past.",
		}
		for expiry, msg := range cases {
			f := validForm()
			f.ExpiryDate = expiry

			errs := ValidateCheckout(f, now)

			assert.Equal(t, msg, errs["expiryDate"], expiry)
		}
	})
}

func TestCheckoutForm_Formatted(t *testing.T) {
	f := validForm()
	f.CardNumber = "4111111111111111"
	f.ExpiryDate = "1227"

	got := f.Formatted()

	assert.Equal(t, "4111 1111 1111 1111", got.CardNumber)
	assert.Equal(t, "12/27", got.ExpiryDate)
	assert.True(t, ValidateCheckout(got, now).Valid())
	assert.Equal(t, "1227", f.ExpiryDate)
}
