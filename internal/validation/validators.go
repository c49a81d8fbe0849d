package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharsRegex = regexp.MustCompile(`^[\d\s\-.()+]+$`)
	nonDigitRegex   = regexp.MustCompile(`\D`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	cardRegex       = regexp.MustCompile(`^\d{16}$`)
	cvvRegex        = regexp.MustCompile(`^\d{3}$`)
	zipRegex        = regexp.MustCompile(`^\d{5,7}$`)
	expiryRegex     = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// simulationCards are the single-digit card numbers that drive the simulated gateway.
var simulationCards = map[string]bool{"1": true, "2": true, "3": true}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts digits, spaces, hyphens, parentheses, dots and plus signs
// as long as exactly 10 digits remain.
func IsValidPhone(phone string) bool {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	return phoneCharsRegex.MatchString(phone) && len(digits) == 10
}

func IsValidCardNumber(cardNumber string) bool {
	sanitized := whitespaceRegex.ReplaceAllString(cardNumber, "")
	if simulationCards[sanitized] {
		return true
	}
	return cardRegex.MatchString(sanitized)
}

// IsValidExpiryDate checks an MM/YY value is a real month not earlier than now's month.
func IsValidExpiryDate(expiry string, now time.Time) bool {
	month, year, ok := splitExpiry(expiry)
	if !ok {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear || (year == currentYear && month < currentMonth) {
		return false
	}
	return true
}

func IsValidCVV(cvv string) bool {
	return cvvRegex.MatchString(cvv)
}

func IsValidZipCode(zip string) bool {
	return zipRegex.MatchString(zip)
}

func splitExpiry(expiry string) (month, year int, ok bool) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

// FormatCardNumber groups card digits in blocks of four, leaving simulation
// values and inputs shorter than four digits untouched.
func FormatCardNumber(value string) string {
	if simulationCards[value] {
		return value
	}

	digits := nonDigitRegex.ReplaceAllString(value, "")
	if len(digits) < 4 {
		return value
	}
	if len(digits) > 16 {
		digits = digits[:16]
	}

	parts := make([]string, 0, 4)
	for i := 0; i < len(digits); i += 4 {
		end := min(i+4, len(digits))
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiryDate turns typed digits into MM/YY.
func FormatExpiryDate(value string) string {
	digits := nonDigitRegex.ReplaceAllString(value, "")
	if len(digits) < 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}
