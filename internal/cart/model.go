package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is a product variant as picked on the product page.
type Item struct {
	ProductID            string          `json:"productId"`
	ProductName          string          `json:"productName"`
	ProductImage         string          `json:"productImage"`
	Price                decimal.Decimal `json:"price"`
	SelectedSize         string          `json:"selectedSize"`
	SelectedColor        string          `json:"selectedColor"`
	Stock                *int            `json:"stock,omitempty"`
	MinimumOrderQuantity *int            `json:"minimumOrderQuantity,omitempty"`
}

// Entry is one cart line, identified by its composite key.
type Entry struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"productId"`
	ProductName          string          `json:"productName"`
	ProductImage         string          `json:"productImage"`
	Price                decimal.Decimal `json:"price"`
	Quantity             int             `json:"quantity"`
	SelectedSize         string          `json:"selectedSize"`
	SelectedColor        string          `json:"selectedColor"`
	Stock                *int            `json:"stock,omitempty"`
	MinimumOrderQuantity *int            `json:"minimumOrderQuantity,omitempty"`
}

// Change is emitted after every cart mutation.
type Change struct {
	SessionID string `json:"sessionId"`
	Count     int    `json:"count"`
}

// Key builds the composite key "<productId>-<size>-<color>".
func Key(productID, size, color string) string {
	return fmt.Sprintf("%s-%s-%s", productID, size, color)
}

func (i Item) Key() string {
	return Key(i.ProductID, i.SelectedSize, i.SelectedColor)
}

// stockCeiling reports the stock limit; zero or missing stock means unknown.
func stockCeiling(stock *int) (int, bool) {
	if stock == nil || *stock <= 0 {
		return 0, false
	}
	return *stock, true
}

func clamp(quantity int, stock *int) int {
	if ceiling, ok := stockCeiling(stock); ok && quantity > ceiling {
		return ceiling
	}
	return quantity
}

// Subtotal is the sum of price × quantity.
func Subtotal(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}

// Count is the number of units across all entries.
func Count(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += e.Quantity
	}
	return n
}
