package interfaces

import (
	"context"

	"price-quoter/src/models"
)

// -----------------------------------------------------------------------------
// IBoard is the read side of the price panel served to browsers.
// -----------------------------------------------------------------------------

type IBoard interface {
	Snapshot(kind string) models.MBoardState
	Slot(position string) (models.MSlotView, bool)
	SetViewportWidth(width int)

	// OnChange registers a non-blocking listener for every board change.
	OnChange(fn func(models.MBoardState))
}

// -----------------------------------------------------------------------------
// IFormStore is the editable trading form.
// -----------------------------------------------------------------------------

type IFormStore interface {
	Fields() []models.MField

	// Apply merges updates and returns validation errors keyed by field id.
	Apply(updates map[string]models.MFieldUpdate) map[string]string
}

// -----------------------------------------------------------------------------
// IFormSelector switches the active contract form.
// -----------------------------------------------------------------------------

type IFormSelector interface {
	HasForm(form string) bool
	SetForm(form, formName string)
}

// -----------------------------------------------------------------------------
// IPricer drives proposal subscriptions.
// -----------------------------------------------------------------------------

type IPricer interface {
	ProcessPriceRequest(ctx context.Context) error
	ProcessForgetProposals(ctx context.Context) error
	FormID() int64
}
