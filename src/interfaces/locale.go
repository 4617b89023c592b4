package interfaces

// -----------------------------------------------------------------------------
// ILocale localizes labels and formats money.
// -----------------------------------------------------------------------------

type ILocale interface {
	Localize(key string) string
	FormatMoney(currency string, amount float64) string
}
