// Package metrics computes per-holding and portfolio-level analytics:
// currency-converted values, profit/loss, annualized return, diversification
// scoring and risk classification.
package metrics

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
)

// daysPerYear is calendar-day annualization (365.25 accounts for leap years)
const daysPerYear = 365.25

// minAnnualizationYears is the minimum holding period for an annualized
// return. Below ~0.1 year the CAGR extrapolation is misleading, so the value
// is undefined rather than zero.
const minAnnualizationYears = 0.1

// extremeProfitLossPct is the soft sanity threshold for |P/L%|. Crossing it
// emits a warning diagnostic, never a failure.
const extremeProfitLossPct = 100.0

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Calculator derives HoldingMetrics records from holdings. Each holding is
// computed independently and output order matches input order.
type Calculator struct {
	converter domain.Converter
	events    *events.Manager
	log       zerolog.Logger
	now       func() time.Time
}

// NewCalculator creates a new per-holding metrics calculator
func NewCalculator(converter domain.Converter, eventManager *events.Manager, log zerolog.Logger) *Calculator {
	return &Calculator{
		converter: converter,
		events:    eventManager,
		log:       log.With().Str("service", "metrics").Logger(),
		now:       time.Now,
	}
}

// SetClock overrides the calculator's clock. Used by tests that need a fixed
// "now" for holding-age arithmetic.
func (c *Calculator) SetClock(now func() time.Time) {
	c.now = now
}

// HoldingMetrics computes one HoldingMetrics per holding, in input order, all
// monetary values expressed in the target currency.
func (c *Calculator) HoldingMetrics(holdings []domain.Holding, targetCurrency string) []domain.HoldingMetrics {
	now := c.now()
	result := make([]domain.HoldingMetrics, len(holdings))
	for i, holding := range holdings {
		result[i] = c.compute(holding, targetCurrency, now)
	}
	return result
}

func (c *Calculator) compute(h domain.Holding, targetCurrency string, now time.Time) domain.HoldingMetrics {
	currentValue := c.converter.Convert(h.CurrentValue(), h.Currency, targetCurrency).ConvertedAmount
	purchaseValue := c.converter.Convert(h.PurchaseValue(), h.Currency, targetCurrency).ConvertedAmount

	profitLoss := round2(currentValue - purchaseValue)

	// Zero purchase value yields 0%, not a division error
	profitLossPct := 0.0
	if purchaseValue > 0 {
		profitLossPct = round2(100 * profitLoss / purchaseValue)
	}

	// Whole days elapsed; negative when the investment date is in the future
	days := int(math.Floor(now.Sub(h.InvestmentDate).Hours() / 24))

	if math.Abs(profitLossPct) > extremeProfitLossPct {
		c.log.Warn().
			Str("holding_id", h.ID).
			Str("name", h.Name).
			Float64("profit_loss_pct", profitLossPct).
			Msg("Extreme profit/loss percentage")
		c.events.Warn(events.ExtremeProfitLoss, "metrics", "extreme profit/loss percentage", map[string]interface{}{
			"holding_id":      h.ID,
			"name":            h.Name,
			"profit_loss_pct": profitLossPct,
		})
	}

	return domain.HoldingMetrics{
		Holding:              h,
		CurrentValueTarget:   currentValue,
		ProfitLoss:           profitLoss,
		ProfitLossPercentage: profitLossPct,
		DaysSinceInvestment:  days,
		AnnualizedReturn:     annualizedReturn(profitLossPct, days),
	}
}

// annualizedReturn computes the CAGR-style annualized return,
// (1 + plPct/100)^(365.25/days) - 1. It is undefined (nil) for non-positive
// holding ages and for periods under minAnnualizationYears.
func annualizedReturn(profitLossPct float64, days int) *float64 {
	if days <= 0 {
		return nil
	}
	if float64(days)/daysPerYear < minAnnualizationYears {
		return nil
	}
	value := math.Pow(1+profitLossPct/100, daysPerYear/float64(days)) - 1
	return &value
}
