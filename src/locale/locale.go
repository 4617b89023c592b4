package locale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/locales/currency"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
)

// fiat currencies formatted through the locale; anything else is treated as
// crypto and printed with its code and eight decimals.
var fiat = map[string]currency.Type{
	"USD": currency.USD,
	"EUR": currency.EUR,
	"GBP": currency.GBP,
	"AUD": currency.AUD,
	"JPY": currency.JPY,
}

var labels = map[string]map[string]string{
	"en": {"Stake": "Stake", "Payout": "Payout", "Net profit": "Net profit", "Return": "Return"},
	"fr": {"Stake": "Mise", "Payout": "Paiement", "Net profit": "Bénéfice net", "Return": "Retour"},
	"de": {"Stake": "Einsatz", "Payout": "Auszahlung", "Net profit": "Nettogewinn", "Return": "Rendite"},
	"es": {"Stake": "Inversión", "Payout": "Pago", "Net profit": "Beneficio neto", "Return": "Rentabilidad"},
}

// -----------------------------------------------------------------------------
// Locale
// -----------------------------------------------------------------------------

type Locale struct {
	trans ut.Translator
}

// -----------------------------------------------------------------------------

// NewLocale returns the translator for lang, falling back to English.
func NewLocale(lang string) (*Locale, error) {
	english := en.New()
	uni := ut.New(english, english, fr.New(), de.New(), es.New())

	code := strings.ToLower(lang)
	trans, found := uni.GetTranslator(code)
	if !found {
		code = "en"
		trans, _ = uni.GetTranslator(code)
	}

	for key, text := range labels[code] {
		if err := trans.Add(key, text, true); err != nil {
			return nil, fmt.Errorf("failed to register label '%s' for %s: %w", key, code, err)
		}
	}

	return &Locale{trans: trans}, nil
}

// -----------------------------------------------------------------------------

// Localize translates key, returning the key itself when no text is known.
func (l *Locale) Localize(key string) string {
	text, err := l.trans.T(key)
	if err != nil || text == "" {
		return key
	}
	return text
}

// -----------------------------------------------------------------------------

// FormatMoney renders amount in the given currency code.
func (l *Locale) FormatMoney(code string, amount float64) string {
	code = strings.ToUpper(code)
	if t, ok := fiat[code]; ok {
		return l.trans.FmtCurrency(amount, decimals(code), t)
	}
	if code == "" {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return code + " " + strconv.FormatFloat(amount, 'f', 8, 64)
}

func decimals(code string) uint64 {
	if code == "JPY" {
		return 0
	}
	return 2
}
