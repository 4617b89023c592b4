package pricing

import (
	"strings"

	"price-quoter/src/interfaces"
	"price-quoter/src/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var hundred = decimal.NewFromInt(100)

// priceMovement compares two quoted amounts. Unparsable values, such as the
// empty string before the first quote, yield no movement.
func priceMovement(old, current string) models.Movement {
	o, err := decimal.NewFromString(strings.TrimSpace(old))
	if err != nil {
		return models.MovementNone
	}
	n, err := decimal.NewFromString(strings.TrimSpace(current))
	if err != nil {
		return models.MovementNone
	}
	switch {
	case n.GreaterThan(o):
		return models.MovementUp
	case n.LessThan(o):
		return models.MovementDown
	}
	return models.MovementNone
}

// commentPrice builds "Net profit: X | Return Y%" for a quote. It reports
// false when ask price or payout is missing.
func commentPrice(loc interfaces.ILocale, currency string, askPrice, payout float64) (string, bool) {
	if askPrice == 0 || payout == 0 {
		return "", false
	}
	ask := decimal.NewFromFloat(askPrice)
	profit := decimal.NewFromFloat(payout).Sub(ask)
	ret := profit.Div(ask).Mul(hundred)

	var b strings.Builder
	b.WriteString(localize(loc, "Net profit"))
	b.WriteString(": ")
	b.WriteString(formatMoney(loc, currency, profit.InexactFloat64()))
	b.WriteString(" | ")
	b.WriteString(localize(loc, "Return"))
	b.WriteString(" ")
	b.WriteString(ret.StringFixed(1))
	b.WriteString("%")
	return b.String(), true
}

// -----------------------------------------------------------------------------

// formatNumber renders a float the shortest way that round trips.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func formatAny(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(n)
	case float32:
		return formatNumber(float64(n))
	}
	return cast.ToString(v)
}

func localize(loc interfaces.ILocale, key string) string {
	if loc == nil {
		return key
	}
	return loc.Localize(key)
}

func formatMoney(loc interfaces.ILocale, currency string, amount float64) string {
	if loc == nil {
		return decimal.NewFromFloat(amount).StringFixed(2)
	}
	return loc.FormatMoney(currency, amount)
}
