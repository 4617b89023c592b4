package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-quoter/src/config"
	"price-quoter/src/contract"
	"price-quoter/src/form"
	"price-quoter/src/grpc_control"
	"price-quoter/src/helpers"
	"price-quoter/src/locale"
	"price-quoter/src/logger"
	"price-quoter/src/pricing"
	"price-quoter/src/server"
	"price-quoter/src/transport"
	"price-quoter/src/utils"
	"price-quoter/src/view"

	"go.uber.org/multierr"
)

const shutdownTimeout = 10 * time.Second

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.MConfig, config.Name)
	errHandler := helpers.NewErrorHandler(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Quote log
	store, err := setupDatabase(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Storage unavailable: %v", err)
	}
	go runCleanup(ctx, store, appLogger)

	// 2. Socket
	socket, err := transport.Dial(ctx, config.MConfig, logger.NewLogger(config.MConfig, "Transport"))
	if err != nil {
		appLogger.Critical("Failed to open socket: %v", err)
	}
	go socket.Run(ctx)

	// 3. Form state and lookups
	formState := form.NewForm(config.Form)
	catalog := contract.NewCatalog(config.Trading)
	defaults := contract.NewDefaults(config.Trading.Defaults)

	times := utils.NewTradingTimes(socket, logger.NewLogger(config.MConfig, "TradingTimes"))
	loadTradingTimes(ctx, times, appLogger)

	loc, err := locale.NewLocale(config.Socket.Language)
	if err != nil {
		appLogger.Critical("Failed to load locale: %v", err)
	}

	board := view.NewBoard(config.UI.Slots, config.UI.ViewportWidth)

	// 4. Price controller
	ctrl := pricing.NewController(pricing.Dependencies{
		Transport:       socket,
		Form:            formState,
		Catalog:         catalog,
		Defaults:        defaults,
		Times:           times,
		View:            board,
		Locale:          loc,
		Store:           store,
		TooltipMinWidth: config.UI.TooltipMinWidth,
	}, logger.NewLogger(config.MConfig, "Pricing"))

	// 5. Outer surfaces
	api := server.NewAPIServer(config.MConfig, logger.NewLogger(config.MConfig, "APIServer"), server.Dependencies{
		Board:     board,
		Form:      formState,
		Selector:  catalog,
		Pricer:    ctrl,
		Store:     store,
		Transport: socket,
	})
	health := grpc_control.NewHealthService(config.MConfig, logger.NewLogger(config.MConfig, "Health"))
	health.SetConnected(socket.Connected())

	socket.OnStateChange(func(connected bool) {
		health.SetConnected(connected)
		if !connected {
			return
		}
		// Subscriptions do not survive a reconnect.
		go func() {
			errHandler.Handle(ctrl.ProcessPriceRequest(ctx), "re-subscribe")
		}()
	})

	go func() {
		if err := api.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
			stop()
		}
	}()
	go func() {
		if err := health.Start(); err != nil {
			appLogger.Error("gRPC health failed: %v", err)
		}
	}()

	// 6. First quote
	errHandler.Handle(ctrl.ProcessPriceRequest(ctx), "initial price request")

	appLogger.Info("Quoting %s on %s", catalog.FormName(), config.Socket.URL)
	<-ctx.Done()

	// -------------------------------------------------------------------------
	// Shutdown
	// -------------------------------------------------------------------------
	appLogger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := api.Stop(shutdownCtx)
	health.Stop()
	shutdownErr = multierr.Append(shutdownErr, socket.Close())
	ctrl.Wait()
	if store != nil {
		shutdownErr = multierr.Append(shutdownErr, store.Close())
	}
	if shutdownErr != nil {
		appLogger.Error("Shutdown finished with errors: %v", shutdownErr)
	}
	_ = appLogger.Sync()
}
