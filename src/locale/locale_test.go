package locale

import (
	"strings"
	"testing"
)

func TestLocalizeFallsBackToEnglish(t *testing.T) {
	l, err := NewLocale("xx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.Localize("Stake"); got != "Stake" {
		t.Errorf("Localize(Stake) = %q", got)
	}
	if got := l.Localize("Unknown label"); got != "Unknown label" {
		t.Errorf("unknown key must echo itself, got %q", got)
	}
}

func TestLocalizeFrench(t *testing.T) {
	l, err := NewLocale("FR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.Localize("Payout"); got != "Paiement" {
		t.Errorf("Localize(Payout) = %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	l, _ := NewLocale("en")

	usd := l.FormatMoney("usd", 10)
	if !strings.Contains(usd, "10.00") || !strings.Contains(usd, "$") {
		t.Errorf("USD = %q", usd)
	}
	if got := l.FormatMoney("BTC", 0.001); got != "BTC 0.00100000" {
		t.Errorf("BTC = %q", got)
	}
	if got := l.FormatMoney("", 3.5); got != "3.50" {
		t.Errorf("no currency = %q", got)
	}
}
