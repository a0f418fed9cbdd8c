package holdings

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
)

// mockPriceSource serves fixed prices for known names
type mockPriceSource struct {
	prices map[string]float64
}

func (m *mockPriceSource) Price(_ domain.SecurityCategory, symbol string) (float64, bool) {
	p, ok := m.prices[symbol]
	return p, ok
}

func newTestService(prices domain.PriceSource) (*Service, *events.Bus) {
	bus := events.NewBus()
	mgr := events.NewManager(bus, zerolog.Nop())
	repo := NewRepository(zerolog.Nop())
	return NewService(repo, prices, mgr, zerolog.Nop()), bus
}

func TestService_SyncPricesUpdatesKnownHoldings(t *testing.T) {
	source := &mockPriceSource{prices: map[string]float64{"AAPL": 210.5}}
	svc, _ := newTestService(source)

	_, err := svc.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)
	_, err = svc.Add(testHolding("h2", "UNKNOWN"))
	require.NoError(t, err)

	result := svc.SyncPrices(context.Background())
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)

	got, err := svc.Get("h1")
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.Equal(t, 210.5, *got.CurrentPrice)
	assert.NotNil(t, got.LastUpdated)

	untouched, err := svc.Get("h2")
	require.NoError(t, err)
	assert.Nil(t, untouched.CurrentPrice)
}

func TestService_SyncPricesNoSourceIsNoop(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)

	result := svc.SyncPrices(context.Background())
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
}

func TestService_SyncPricesEmitsEvent(t *testing.T) {
	source := &mockPriceSource{prices: map[string]float64{"AAPL": 210.5}}
	svc, bus := newTestService(source)

	var captured *events.Event
	bus.Subscribe(events.PricesSynced, func(e *events.Event) {
		captured = e
	})

	_, err := svc.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)

	svc.SyncPrices(context.Background())

	require.NotNil(t, captured)
	assert.Equal(t, 1, captured.Data["updated"])
}

func TestService_ImportCSVStoresHoldings(t *testing.T) {
	svc, bus := newTestService(nil)

	var captured *events.Event
	bus.Subscribe(events.HoldingsImported, func(e *events.Event) {
		captured = e
	})

	input := `name,category,country,currency,purchase_price,quantity,investment_date
Apple,Stock,USA,USD,150,10,2023-05-01
Broken,Stock,USA,USD,oops,10,2023-05-01
`
	result, err := svc.ImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Len(t, result.Errors, 1)
	assert.Len(t, svc.List(), 1)
	assert.NotEmpty(t, svc.List()[0].ID)

	require.NotNil(t, captured)
	assert.Equal(t, 1, captured.Data["imported"])
}

func TestService_DeleteEmitsChangeEvent(t *testing.T) {
	svc, bus := newTestService(nil)

	changes := 0
	bus.Subscribe(events.HoldingsChanged, func(e *events.Event) {
		changes++
	})

	_, err := svc.Add(testHolding("h1", "AAPL"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete("h1"))

	assert.Equal(t, 2, changes)
	assert.Empty(t, svc.List())
}
