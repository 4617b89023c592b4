package interfaces

import "price-quoter/src/models"

// -----------------------------------------------------------------------------
// IQuoteStore defines the contract for the quote log.
// -----------------------------------------------------------------------------

type IQuoteStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveQuote appends one displayed quote.
	SaveQuote(quote models.MQuoteRecord) error

	// -----------------------------------------------------------------------------

	// LatestQuote returns the most recent quote shown in position.
	LatestQuote(position string) (*models.MQuoteRecord, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes quotes older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
