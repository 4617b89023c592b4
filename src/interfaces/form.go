package interfaces

import "price-quoter/src/models"

// -----------------------------------------------------------------------------
// IFormReader exposes the trading form to the price controller.
// -----------------------------------------------------------------------------

type IFormReader interface {
	// Field returns the field with the given id, false when it does not exist.
	Field(id string) (models.MField, bool)

	// HasVisibleErrors reports whether any visible field is flagged as invalid.
	HasVisibleErrors() bool
}
