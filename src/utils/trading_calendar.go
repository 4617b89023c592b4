package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// SessionKind tells how a symbol trades.
type SessionKind int

const (
	// SessionExchange follows an exchange calendar (holidays, lunch breaks).
	SessionExchange SessionKind = iota
	// SessionWeekdays trades around the clock Monday to Friday (forex, metals).
	SessionWeekdays
	// SessionAlways never closes (synthetic indices).
	SessionAlways
)

const (
	closedMarker = "--"
	endOfDay     = "23:59:59"
)

// indexMICs maps OTC index symbols to the MIC of their home exchange.
// See scmhub/calendar for supported MICs (ISO 10383)
var indexMICs = map[string]string{
	"OTC_DJI":   "xnys",
	"OTC_SPC":   "xnys",
	"OTC_NDX":   "xnys",
	"OTC_FTSE":  "xlon",
	"OTC_GDAXI": "xfra",
	"OTC_SX5E":  "xfra",
	"OTC_FCHI":  "xpar",
	"OTC_AEX":   "xams",
	"OTC_SSMI":  "xswx",
	"OTC_N225":  "xtks",
	"OTC_HSI":   "xhkg",
	"OTC_AS51":  "xasx",
}

// exchangeCalendar loads the scmhub calendar of a MIC, nil when unsupported.
var exchangeCalendar = func(mic string) *calendar.Calendar {
	return calendar.GetCalendar(mic)
}

// TradingCalendar calculates trading sessions, using scmhub/calendar for
// exchange traded symbols.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Kind     SessionKind
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// GetCalendar returns the calendar of symbol, nil when the symbol is unknown.
// When the exchange calendar cannot be loaded the result has Fallback set and
// trades Mon-Fri 09:30-16:00 New York.
func GetCalendar(symbol string) *TradingCalendar {
	switch {
	case strings.HasPrefix(symbol, "frx"):
		return &TradingCalendar{Kind: SessionWeekdays, Timezone: time.UTC}
	case strings.HasPrefix(symbol, "R_"), strings.HasPrefix(symbol, "1HZ"),
		strings.HasPrefix(symbol, "RDBEAR"), strings.HasPrefix(symbol, "RDBULL"),
		strings.HasPrefix(symbol, "BOOM"), strings.HasPrefix(symbol, "CRASH"),
		strings.HasPrefix(symbol, "JD"), strings.HasPrefix(symbol, "stpRNG"):
		return &TradingCalendar{Kind: SessionAlways, Timezone: time.UTC}
	}

	mic, ok := indexMICs[symbol]
	if !ok {
		return nil
	}

	cal := exchangeCalendar(mic)
	if cal == nil {
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC // Worst case
		}
		return &TradingCalendar{Kind: SessionExchange, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Kind: SessionExchange, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	switch {
	case tc.Kind == SessionAlways:
		return true
	case tc.Kind == SessionWeekdays, tc.Fallback:
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	switch {
	case tc.Kind != SessionExchange:
		return tc.IsTradingDay(t)
	case tc.Fallback:
		if !tc.IsTradingDay(t) {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		// 9:30 - 16:00 NY Time
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}
	return tc.Calendar.IsOpen(t)
}

// -----------------------------------------------------------------------------

// CloseTimes lists the UTC close time (HH:MM:SS) of every session on the
// given local date, in order. A day without trading yields ["--"].
func (tc *TradingCalendar) CloseTimes(year int, month time.Month, day int) []string {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	if !tc.IsTradingDay(midnight) {
		return []string{closedMarker}
	}
	if tc.Kind != SessionExchange {
		return []string{endOfDay}
	}

	var closes []string
	wasOpen := false
	for m := 0; m < 24*60; m++ {
		t := midnight.Add(time.Duration(m) * time.Minute)
		open := tc.IsOpenOnMinute(t)
		if wasOpen && !open {
			closes = append(closes, t.UTC().Format("15:04:05"))
		}
		wasOpen = open
	}
	if wasOpen {
		closes = append(closes, endOfDay)
	}
	if len(closes) == 0 {
		return []string{closedMarker}
	}
	return closes
}
