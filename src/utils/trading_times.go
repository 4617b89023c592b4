package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"
)

const dateLayout = "2006-01-02"

// TradingTimes caches session close times per date and symbol. Entries come
// from the server's trading_times call; misses fall back to local calendars.
type TradingTimes struct {
	transport interfaces.ITransport
	Logger    *logger.Logger

	mu        sync.RWMutex
	closes    map[string]map[string][]string // date -> symbol -> closes
	calendars map[string]*TradingCalendar
}

// -----------------------------------------------------------------------------

// NewTradingTimes creates the cache. transport may be nil, in which case only
// local calendars are used.
func NewTradingTimes(transport interfaces.ITransport, log *logger.Logger) *TradingTimes {
	return &TradingTimes{
		transport: transport,
		Logger:    log,
		closes:    make(map[string]map[string][]string),
		calendars: make(map[string]*TradingCalendar),
	}
}

// -----------------------------------------------------------------------------

// Load fetches the trading times of date from the server and caches the
// close times of every listed symbol. It returns the number of symbols stored.
func (tt *TradingTimes) Load(ctx context.Context, date string) (int, error) {
	if tt.transport == nil {
		return 0, fmt.Errorf("no transport configured")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return 0, fmt.Errorf("invalid date '%s': %w", date, err)
	}

	resp, err := tt.transport.Call(ctx, &models.MTradingTimesRequest{TradingTimes: date})
	if err != nil {
		return 0, fmt.Errorf("trading_times request failed: %w", err)
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("trading_times rejected: %s", resp.Error.Message)
	}
	if resp.TradingTimes == nil {
		return 0, fmt.Errorf("trading_times response has no payload")
	}

	count := 0
	tt.mu.Lock()
	defer tt.mu.Unlock()
	for _, market := range resp.TradingTimes.Markets {
		for _, sub := range market.Submarkets {
			for _, sym := range sub.Symbols {
				tt.putLocked(date, sym.Symbol, sym.Times.Close)
				count++
			}
		}
	}

	tt.Logger.Info("Loaded trading times for %d symbols on %s", count, date)
	return count, nil
}

// -----------------------------------------------------------------------------

// Put stores the close times of symbol on date.
func (tt *TradingTimes) Put(date, symbol string, closes []string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.putLocked(date, symbol, closes)
}

func (tt *TradingTimes) putLocked(date, symbol string, closes []string) {
	bySymbol, ok := tt.closes[date]
	if !ok {
		bySymbol = make(map[string][]string)
		tt.closes[date] = bySymbol
	}
	bySymbol[symbol] = append([]string(nil), closes...)
}

// -----------------------------------------------------------------------------

// Times returns the close times of symbol on date. Cache misses are computed
// from the symbol's calendar and cached; unknown symbols yield nil.
func (tt *TradingTimes) Times(date, symbol string) []string {
	tt.mu.RLock()
	if closes, ok := tt.closes[date][symbol]; ok {
		tt.mu.RUnlock()
		return append([]string(nil), closes...)
	}
	tt.mu.RUnlock()

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}
	cal := tt.calendar(symbol)
	if cal == nil {
		return nil
	}

	closes := cal.CloseTimes(day.Year(), day.Month(), day.Day())
	tt.Put(date, symbol, closes)
	return append([]string(nil), closes...)
}

// -----------------------------------------------------------------------------

func (tt *TradingTimes) calendar(symbol string) *TradingCalendar {
	tt.mu.RLock()
	cal, ok := tt.calendars[symbol]
	tt.mu.RUnlock()
	if ok {
		return cal
	}

	cal = GetCalendar(symbol)
	if cal != nil && cal.Fallback && tt.Logger != nil {
		tt.Logger.Warning("No exchange calendar for %s, using Mon-Fri 09:30-16:00 New York", symbol)
	}
	tt.mu.Lock()
	tt.calendars[symbol] = cal
	tt.mu.Unlock()
	return cal
}
