package main

import (
	"context"
	"time"

	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"
	"price-quoter/src/storage"
	"price-quoter/src/utils"
)

const cleanupInterval = 6 * time.Hour

// -----------------------------------------------------------------------------

// setupDatabase opens the quote log selected by config. It returns nil when
// storage is disabled.
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IQuoteStore, error) {
	store, err := storage.NewQuoteStore(config, logger.NewLogger(config, "QuoteStore"))
	if err != nil {
		appLogger.Error("Failed to init db: %v", err)
		return nil, err
	}
	if store == nil {
		appLogger.Info("Quote log disabled")
		return nil, nil
	}
	if err := store.Initialize(); err != nil {
		appLogger.Error("Failed to migrate db: %v", err)
		return nil, err
	}
	return store, nil
}

// -----------------------------------------------------------------------------

// runCleanup prunes the quote log once at startup and then periodically.
func runCleanup(ctx context.Context, store interfaces.IQuoteStore, appLogger *logger.Logger) {
	if store == nil {
		return
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		if err := store.CleanupOldData(); err != nil {
			appLogger.Warning("Quote cleanup failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// -----------------------------------------------------------------------------

// loadTradingTimes caches today's close times. Failures only cost the
// server-side default expiry, so they are logged and ignored.
func loadTradingTimes(ctx context.Context, times *utils.TradingTimes, appLogger *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	date := time.Now().UTC().Format("2006-01-02")
	n, err := times.Load(ctx, date)
	if err != nil {
		appLogger.Warning("Trading times for %s unavailable: %v", date, err)
		return
	}
	appLogger.Info("Trading times loaded for %d symbols", n)
}
