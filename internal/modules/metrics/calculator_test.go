package metrics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
	"github.com/aristath/foliotrack/internal/modules/currency"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	engine := currency.NewEngine(nil, zerolog.Nop())
	calc := NewCalculator(engine, nil, zerolog.Nop())
	calc.SetClock(func() time.Time { return testNow })
	return calc
}

func ptr(v float64) *float64 { return &v }

func TestHoldingMetrics_SameCurrencyProfit(t *testing.T) {
	calc := newTestCalculator(t)

	holdings := []domain.Holding{{
		ID:             "h1",
		Name:           "ACME",
		Category:       domain.CategoryStock,
		Country:        "USA",
		Currency:       "USD",
		PurchasePrice:  100,
		Quantity:       10,
		CurrentPrice:   ptr(110),
		InvestmentDate: testNow.AddDate(-1, 0, 0),
	}}

	result := calc.HoldingMetrics(holdings, "USD")
	require.Len(t, result, 1)

	hm := result[0]
	assert.Equal(t, 1100.0, hm.CurrentValueTarget)
	assert.Equal(t, 100.0, hm.ProfitLoss)
	assert.Equal(t, 10.0, hm.ProfitLossPercentage)
}

func TestHoldingMetrics_MissingCurrentPriceMeansZeroProfit(t *testing.T) {
	calc := newTestCalculator(t)

	holdings := []domain.Holding{{
		ID:             "h1",
		Currency:       "USD",
		PurchasePrice:  50,
		Quantity:       4,
		InvestmentDate: testNow.AddDate(0, -6, 0),
	}}

	result := calc.HoldingMetrics(holdings, "USD")
	require.Len(t, result, 1)

	assert.Equal(t, 200.0, result[0].CurrentValueTarget)
	assert.Equal(t, 0.0, result[0].ProfitLoss)
	assert.Equal(t, 0.0, result[0].ProfitLossPercentage)
}

func TestHoldingMetrics_ZeroPurchasePriceNoDivisionByZero(t *testing.T) {
	calc := newTestCalculator(t)

	holdings := []domain.Holding{{
		ID:             "h1",
		Currency:       "USD",
		PurchasePrice:  0,
		Quantity:       10,
		CurrentPrice:   ptr(5),
		InvestmentDate: testNow.AddDate(0, -3, 0),
	}}

	result := calc.HoldingMetrics(holdings, "USD")
	require.Len(t, result, 1)

	assert.Equal(t, 50.0, result[0].ProfitLoss)
	assert.Equal(t, 0.0, result[0].ProfitLossPercentage)
}

func TestHoldingMetrics_ConvertsToTargetCurrency(t *testing.T) {
	engine := currency.NewEngineWithRates(map[string]float64{
		"USD": 1.0,
		"EUR": 0.5,
	}, nil, zerolog.Nop())
	calc := NewCalculator(engine, nil, zerolog.Nop())
	calc.SetClock(func() time.Time { return testNow })

	holdings := []domain.Holding{{
		ID:             "h1",
		Currency:       "EUR",
		PurchasePrice:  100,
		Quantity:       1,
		CurrentPrice:   ptr(110),
		InvestmentDate: testNow.AddDate(-1, 0, 0),
	}}

	result := calc.HoldingMetrics(holdings, "USD")
	require.Len(t, result, 1)

	// EUR -> USD at rate 2.0
	assert.InDelta(t, 220.0, result[0].CurrentValueTarget, 1e-9)
	assert.InDelta(t, 20.0, result[0].ProfitLoss, 1e-9)
	assert.Equal(t, 10.0, result[0].ProfitLossPercentage)
}

func TestHoldingMetrics_DaysSinceInvestment(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"one year ago", testNow.AddDate(-1, 0, 0), 365},
		{"ten days ago", testNow.Add(-10 * 24 * time.Hour), 10},
		{"today", testNow, 0},
		{"future date is negative, not clamped", testNow.Add(5 * 24 * time.Hour), -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			holdings := []domain.Holding{{Currency: "USD", InvestmentDate: tc.date}}
			result := calc.HoldingMetrics(holdings, "USD")
			assert.Equal(t, tc.want, result[0].DaysSinceInvestment)
		})
	}
}

func TestHoldingMetrics_AnnualizedReturn(t *testing.T) {
	calc := newTestCalculator(t)

	t.Run("one year at ten percent", func(t *testing.T) {
		holdings := []domain.Holding{{
			Currency:       "USD",
			PurchasePrice:  100,
			Quantity:       1,
			CurrentPrice:   ptr(110),
			InvestmentDate: testNow.AddDate(-1, 0, 0),
		}}
		result := calc.HoldingMetrics(holdings, "USD")
		require.NotNil(t, result[0].AnnualizedReturn)
		// (1.10)^(365.25/365) - 1
		assert.InDelta(t, 0.1003, *result[0].AnnualizedReturn, 0.001)
	})

	t.Run("undefined under the minimum holding period", func(t *testing.T) {
		holdings := []domain.Holding{{
			Currency:       "USD",
			PurchasePrice:  100,
			Quantity:       1,
			CurrentPrice:   ptr(150),
			InvestmentDate: testNow.Add(-20 * 24 * time.Hour),
		}}
		result := calc.HoldingMetrics(holdings, "USD")
		assert.Nil(t, result[0].AnnualizedReturn)
	})

	t.Run("undefined for zero or negative age", func(t *testing.T) {
		for _, date := range []time.Time{testNow, testNow.Add(30 * 24 * time.Hour)} {
			holdings := []domain.Holding{{
				Currency:       "USD",
				PurchasePrice:  100,
				Quantity:       1,
				InvestmentDate: date,
			}}
			result := calc.HoldingMetrics(holdings, "USD")
			assert.Nil(t, result[0].AnnualizedReturn)
		}
	})
}

func TestHoldingMetrics_ExtremeProfitLossEmitsWarning(t *testing.T) {
	bus := events.NewBus()
	manager := events.NewManager(bus, zerolog.Nop())
	engine := currency.NewEngine(manager, zerolog.Nop())
	calc := NewCalculator(engine, manager, zerolog.Nop())
	calc.SetClock(func() time.Time { return testNow })

	var warned *events.Event
	bus.Subscribe(events.ExtremeProfitLoss, func(e *events.Event) { warned = e })

	holdings := []domain.Holding{{
		ID:             "h1",
		Currency:       "USD",
		PurchasePrice:  10,
		Quantity:       1,
		CurrentPrice:   ptr(50), // +400%
		InvestmentDate: testNow.AddDate(-1, 0, 0),
	}}

	result := calc.HoldingMetrics(holdings, "USD")
	assert.Equal(t, 400.0, result[0].ProfitLossPercentage)
	require.NotNil(t, warned)
	assert.Equal(t, events.SeverityWarning, warned.Severity)
	assert.Equal(t, "h1", warned.Data["holding_id"])
}

func TestHoldingMetrics_PreservesInputOrder(t *testing.T) {
	calc := newTestCalculator(t)

	holdings := []domain.Holding{
		{ID: "c", Currency: "USD", InvestmentDate: testNow},
		{ID: "a", Currency: "USD", InvestmentDate: testNow},
		{ID: "b", Currency: "USD", InvestmentDate: testNow},
	}

	result := calc.HoldingMetrics(holdings, "USD")
	require.Len(t, result, 3)
	assert.Equal(t, "c", result[0].ID)
	assert.Equal(t, "a", result[1].ID)
	assert.Equal(t, "b", result[2].ID)
}
