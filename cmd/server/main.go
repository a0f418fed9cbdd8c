// Package main is the entry point for the foliotrack portfolio analytics
// server. It tracks investment holdings, converts values across currencies,
// computes per-holding and portfolio-level metrics and generates
// rebalancing suggestions.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/foliotrack/internal/clients/exchangerate"
	"github.com/aristath/foliotrack/internal/clients/marketdata"
	"github.com/aristath/foliotrack/internal/config"
	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
	"github.com/aristath/foliotrack/internal/modules/currency"
	currencyhandlers "github.com/aristath/foliotrack/internal/modules/currency/handlers"
	"github.com/aristath/foliotrack/internal/modules/holdings"
	holdingshandlers "github.com/aristath/foliotrack/internal/modules/holdings/handlers"
	"github.com/aristath/foliotrack/internal/modules/metrics"
	metricshandlers "github.com/aristath/foliotrack/internal/modules/metrics/handlers"
	"github.com/aristath/foliotrack/internal/modules/suggestions"
	suggestionshandlers "github.com/aristath/foliotrack/internal/modules/suggestions/handlers"
	"github.com/aristath/foliotrack/internal/scheduler"
	"github.com/aristath/foliotrack/internal/server"
	"github.com/aristath/foliotrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	log.Info().
		Int("port", cfg.Port).
		Str("base_currency", cfg.BaseCurrency).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting foliotrack")

	// Diagnostic events: one bus, surfaced through logs and the SSE stream
	eventBus := events.NewBus()
	eventManager := events.NewManager(eventBus, log)

	// Currency conversion engine with the built-in seed table
	engine := currency.NewEngine(eventManager, log)

	// Optional external rate source
	var rateSource domain.RateSource
	if cfg.RateAPIURL != "" {
		rateSource = exchangerate.NewClient(cfg.RateAPIURL, log)
	}

	// Market data providers, quote endpoint first, static prices last
	providers := []marketdata.Provider{}
	if cfg.MarketDataURL != "" {
		providers = append(providers, marketdata.NewQuoteProvider(cfg.MarketDataURL, log))
	}
	staticPrices := marketdata.NewStaticProvider(nil)
	providers = append(providers, staticPrices)
	priceChain := marketdata.NewChain(providers, log)

	// Holdings store and services
	holdingsRepo := holdings.NewRepository(log)
	holdingsService := holdings.NewService(holdingsRepo, priceChain, eventManager, log)

	// Metrics and suggestions
	calculator := metrics.NewCalculator(engine, eventManager, log)
	aggregator := metrics.NewAggregator(calculator, engine, log)
	generator := suggestions.NewGenerator(log)

	// Background jobs
	sched := scheduler.New(log)
	if rateSource != nil {
		job := scheduler.NewRateRefreshJob(engine, rateSource, log)
		if err := sched.AddJob(cfg.RateRefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register rate refresh job")
		}
		// Fetch a fresh table at startup, seeded rates serve until it lands
		go func() {
			if err := sched.RunNow(job); err != nil {
				log.Warn().Err(err).Msg("Initial rate refresh failed, using seeded rates")
			}
		}()
	}
	priceJob := scheduler.NewPriceSyncJob(holdingsService, log)
	if err := sched.AddJob(cfg.PriceSyncSchedule, priceJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register price sync job")
	}
	sched.Start()

	// HTTP server
	srv := server.New(server.Config{
		Log:      log,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		EventBus: eventBus,

		CurrencyHandler:    currencyhandlers.NewHandler(engine, rateSource, log),
		HoldingsHandler:    holdingshandlers.NewHandler(holdingsService, log),
		MetricsHandler:     metricshandlers.NewHandler(calculator, aggregator, holdingsService, cfg.BaseCurrency, log),
		SuggestionsHandler: suggestionshandlers.NewHandler(generator, calculator, aggregator, holdingsService, cfg.BaseCurrency, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
