package product

import (
	"fmt"
	"math"
	"strings"
)

// Validation constants.
const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
)

// Validate checks a product before insertion.
func Validate(p *Product) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if err := validatePrice(p.Price); err != nil {
		return err
	}
	if err := validateStock(p.Stock); err != nil {
		return err
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return ErrMissingOwner
	}
	return nil
}

// ValidateUpdate checks a partial-update patch. Only the fields present
// are validated; an empty patch is rejected outright.
func ValidateUpdate(u Update) error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	if u.Name != nil {
		if err := validateName(*u.Name); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := validateDescription(*u.Description); err != nil {
			return err
		}
	}
	if u.Price != nil {
		if err := validatePrice(*u.Price); err != nil {
			return err
		}
	}
	if u.Stock != nil {
		if err := validateStock(*u.Stock); err != nil {
			return err
		}
	}
	return nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, maxDescriptionLength)
	}
	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidPrice)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPrice)
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidStock)
	}
	return nil
}
