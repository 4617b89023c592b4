package interfaces

import "price-quoter/src/models"

// -----------------------------------------------------------------------------
// IPriceView is the presentation surface the controller renders into.
// -----------------------------------------------------------------------------

type IPriceView interface {
	// HasSlot reports whether a price container exists for position.
	HasSlot(position string) bool

	// Slot returns the current state of a container.
	Slot(position string) (models.MSlotView, bool)

	// ApplySlot replaces the state of a container.
	ApplySlot(position string, view models.MSlotView)

	ShowPriceOverlay()
	HidePriceOverlay()
	HideOverlayContainer()

	// ResetPriceMovement clears every up/down indicator.
	ResetPriceMovement()

	// ViewportWidth is the width of the rendering surface in pixels.
	ViewportWidth() int
}
