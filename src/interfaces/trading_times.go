package interfaces

// -----------------------------------------------------------------------------
// ITradingTimes resolves session close times.
// -----------------------------------------------------------------------------

type ITradingTimes interface {
	// Times returns the close times for symbol on date (YYYY-MM-DD).
	// A closed market yields ["--"]; unknown pairs yield nil.
	Times(date, symbol string) []string
}
