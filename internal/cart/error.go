package cart

import "errors"

var (
	// -- Validation & Input --
	ErrMissingSession = errors.New("missing cart session")
	ErrInvalidItem    = errors.New("invalid cart item")

	// -- Resource State --
	ErrCartNotFound = errors.New("cart not found")

	// -- Storage Failures --
	ErrFailedSaveCart  = errors.New("failed to save cart")
	ErrFailedClearCart = errors.New("failed to clear cart")
)
