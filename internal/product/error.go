package product

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")

	// -- Upstream Failures --
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrUnexpectedStatus   = errors.New("unexpected catalog status")
	ErrDecodeResponse     = errors.New("failed to decode catalog response")
)
