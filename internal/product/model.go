package product

import "github.com/shopspring/decimal"

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

type Meta struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Barcode   string `json:"barcode"`
	QRCode    string `json:"qrCode"`
}

// Product mirrors the catalog's product document.
type Product struct {
	ID                   int             `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	DiscountPercentage   float64         `json:"discountPercentage"`
	Rating               float64         `json:"rating"`
	Stock                int             `json:"stock"`
	Tags                 []string        `json:"tags"`
	Brand                string          `json:"brand,omitempty"`
	SKU                  string          `json:"sku"`
	Weight               float64         `json:"weight"`
	Dimensions           Dimensions      `json:"dimensions"`
	WarrantyInformation  string          `json:"warrantyInformation"`
	ShippingInformation  string          `json:"shippingInformation"`
	AvailabilityStatus   string          `json:"availabilityStatus"`
	Reviews              []Review        `json:"reviews"`
	ReturnPolicy         string          `json:"returnPolicy"`
	MinimumOrderQuantity int             `json:"minimumOrderQuantity"`
	Meta                 Meta            `json:"meta"`
	Images               []string        `json:"images"`
	Thumbnail            string          `json:"thumbnail"`
}

type productList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

type ListOptions struct {
	Limit int
	Skip  int
}

const (
	DefaultLimit = 30
	MaxLimit     = 100
)

// Normalize applies the default page size and bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Skip < 0 {
		o.Skip = 0
	}
	return o
}
