package product

import "errors"

// Domain errors for the product package, checked with errors.Is().
var (
	// ErrProductNotFound is returned when a product ID does not exist.
	ErrProductNotFound = errors.New("product: not found")

	// ErrInvalidName is returned when a product name is empty or too long.
	ErrInvalidName = errors.New("product: invalid name")

	// ErrInvalidDescription is returned when a description exceeds the length cap.
	ErrInvalidDescription = errors.New("product: invalid description")

	// ErrInvalidPrice is returned when a price is negative or not finite.
	ErrInvalidPrice = errors.New("product: invalid price")

	// ErrInvalidStock is returned when a stock count is negative.
	ErrInvalidStock = errors.New("product: invalid stock")

	// ErrMissingOwner is returned when creating a product without an owner.
	ErrMissingOwner = errors.New("product: missing owner")

	// ErrEmptyUpdate is returned when a patch contains no fields.
	ErrEmptyUpdate = errors.New("product: empty update")
)
