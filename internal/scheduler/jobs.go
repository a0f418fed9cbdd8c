package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/modules/currency"
	"github.com/aristath/foliotrack/internal/modules/holdings"
)

// RateRefreshJob pulls a fresh exchange rate table into the engine.
// A failed fetch leaves the current table untouched.
type RateRefreshJob struct {
	engine *currency.Engine
	source domain.RateSource
	log    zerolog.Logger
}

// NewRateRefreshJob creates a rate refresh job
func NewRateRefreshJob(engine *currency.Engine, source domain.RateSource, log zerolog.Logger) *RateRefreshJob {
	return &RateRefreshJob{
		engine: engine,
		source: source,
		log:    log.With().Str("job", "rate_refresh").Logger(),
	}
}

// Name identifies the job
func (j *RateRefreshJob) Name() string {
	return "rate_refresh"
}

// Run fetches and applies a new rate table
func (j *RateRefreshJob) Run() error {
	table, err := j.source.FetchTable(currency.ReferenceCurrency)
	if err != nil {
		return err
	}
	return j.engine.Refresh(table)
}

// PriceSyncJob refreshes current prices for all holdings
type PriceSyncJob struct {
	service *holdings.Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewPriceSyncJob creates a price sync job
func NewPriceSyncJob(service *holdings.Service, log zerolog.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		service: service,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "price_sync").Logger(),
	}
}

// Name identifies the job
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run synchronizes holding prices from the market data chain
func (j *PriceSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result := j.service.SyncPrices(ctx)
	j.log.Debug().
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Price sync run finished")
	return nil
}
