package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// OrderNumberPattern matches every value GenerateOrderNumber can return.
var OrderNumberPattern = regexp.MustCompile(`^ORD-\d{6}-\d{3}$`)

// GenerateOrderNumber returns "ORD-<last 6 digits of unix ms>-<3 random digits>".
// Two calls in the same millisecond collide with probability 1/1000.
func GenerateOrderNumber(now time.Time) string {
	ms := now.UnixMilli() % 1_000_000

	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 1000)
	}

	return fmt.Sprintf("ORD-%06d-%03d", ms, n.Int64())
}
