// Package currency provides the currency conversion engine: a fixed table of
// rates relative to a reference currency, with every pairwise cross rate
// precomputed and an atomic wholesale refresh.
package currency

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
)

// ReferenceCurrency is the unit all seed rates are expressed against
const ReferenceCurrency = "USD"

// DefaultRates is the seed table: units of currency per 1 USD.
// Used until a refresh from an external rate source succeeds.
var DefaultRates = map[string]float64{
	"USD": 1.0,
	"AUD": 1.47,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"CAD": 1.36,
	"CHF": 0.88,
	"INR": 83.12,
	"CNY": 7.24,
}

// rateTable holds one immutable generation of rates. A refresh builds a new
// table and swaps the pointer, so readers never observe a partial update.
type rateTable struct {
	perReference map[string]float64 // units of currency per 1 reference unit
	cross        map[string]float64 // "FROM:TO" -> rate, all supported pairs
}

func pairKey(from, to string) string {
	return from + ":" + to
}

// buildTable precomputes every pairwise cross rate from a per-reference table.
// Cross rate for (from, to) is rate[to] / rate[from].
func buildTable(perReference map[string]float64) *rateTable {
	t := &rateTable{
		perReference: make(map[string]float64, len(perReference)),
		cross:        make(map[string]float64, len(perReference)*len(perReference)),
	}
	for code, rate := range perReference {
		if rate <= 0 {
			continue
		}
		t.perReference[code] = rate
	}
	for from, fromRate := range t.perReference {
		for to, toRate := range t.perReference {
			t.cross[pairKey(from, to)] = toRate / fromRate
		}
	}
	return t
}

// Engine converts amounts between supported currencies.
// The rate table is owned, constructed state - never a package-level
// singleton - so independent engines (e.g. in tests) cannot interfere.
type Engine struct {
	mu     sync.RWMutex
	table  *rateTable
	events *events.Manager
	log    zerolog.Logger
}

// NewEngine creates an engine seeded with DefaultRates
func NewEngine(eventManager *events.Manager, log zerolog.Logger) *Engine {
	return NewEngineWithRates(DefaultRates, eventManager, log)
}

// NewEngineWithRates creates an engine with a caller-supplied seed table of
// units-per-reference rates
func NewEngineWithRates(perReference map[string]float64, eventManager *events.Manager, log zerolog.Logger) *Engine {
	return &Engine{
		table:  buildTable(perReference),
		events: eventManager,
		log:    log.With().Str("service", "currency").Logger(),
	}
}

func (e *Engine) snapshot() *rateTable {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table
}

// resolveRate is the named lenient-degrade policy for rate lookup.
// Identity pairs are always 1.0, even for unsupported currencies. A pair not
// in the table degrades to a 1:1 conversion instead of failing: portfolio
// calculations must not abort because one holding has an exotic currency.
// The second result reports whether the pair was actually supported.
func (e *Engine) resolveRate(from, to string) (float64, bool) {
	if from == to {
		return 1.0, true
	}
	if rate, ok := e.snapshot().cross[pairKey(from, to)]; ok {
		return rate, true
	}
	return 1.0, false
}

// Convert converts an amount between two currencies. It never fails: an
// unsupported pair falls back to rate 1.0 with a warning diagnostic, so
// callers must check the returned currency codes before trusting the amount.
// No rounding is applied here; rounding is a display concern.
func (e *Engine) Convert(amount float64, fromCurrency, toCurrency string) domain.Conversion {
	rate, supported := e.resolveRate(fromCurrency, toCurrency)
	if !supported {
		e.warnFallback(fromCurrency, toCurrency)
	}

	return domain.Conversion{
		Amount:          amount,
		FromCurrency:    fromCurrency,
		ToCurrency:      toCurrency,
		Rate:            rate,
		ConvertedAmount: amount * rate,
	}
}

// GetRate returns the numeric rate for a pair, defaulting to 1 for
// unsupported pairs
func (e *Engine) GetRate(fromCurrency, toCurrency string) float64 {
	rate, supported := e.resolveRate(fromCurrency, toCurrency)
	if !supported {
		e.warnFallback(fromCurrency, toCurrency)
	}
	return rate
}

func (e *Engine) warnFallback(from, to string) {
	e.log.Warn().
		Str("from", from).
		Str("to", to).
		Msg("Unsupported currency pair, falling back to 1:1")
	e.events.Warn(events.RateFallback, "currency", "unsupported currency pair, using 1:1 rate", map[string]interface{}{
		"from": from,
		"to":   to,
	})
}

// Refresh replaces the rate table wholesale from an external source. The new
// table is fully built before the swap, so concurrent readers see either the
// old or the new generation, never a mix. An unusable replacement leaves the
// existing table untouched.
func (e *Engine) Refresh(perReference map[string]float64) error {
	if len(perReference) == 0 {
		return fmt.Errorf("refusing to refresh with empty rate table")
	}

	next := make(map[string]float64, len(perReference)+1)
	for code, rate := range perReference {
		next[code] = rate
	}
	next[ReferenceCurrency] = 1.0

	table := buildTable(next)
	if len(table.perReference) < 2 {
		return fmt.Errorf("refusing to refresh with %d usable rates", len(table.perReference))
	}

	e.mu.Lock()
	e.table = table
	e.mu.Unlock()

	e.log.Info().Int("currencies", len(table.perReference)).Msg("Rate table refreshed")
	e.events.Info(events.RatesRefreshed, "currency", "rate table refreshed", map[string]interface{}{
		"currencies": len(table.perReference),
	})
	return nil
}

// Supported returns the sorted list of currencies in the active table
func (e *Engine) Supported() []string {
	table := e.snapshot()
	codes := make([]string, 0, len(table.perReference))
	for code := range table.perReference {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rates returns a copy of the active units-per-reference table
func (e *Engine) Rates() map[string]float64 {
	table := e.snapshot()
	out := make(map[string]float64, len(table.perReference))
	for code, rate := range table.perReference {
		out[code] = rate
	}
	return out
}
