package marketdata

import (
	"fmt"
	"sync"

	"github.com/aristath/foliotrack/internal/domain"
)

// StaticProvider serves prices from a fixed in-memory table. Used as the
// last link in the chain and for manually priced holdings such as real
// estate, where no feed exists.
type StaticProvider struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewStaticProvider creates a static provider with an initial price table
func NewStaticProvider(prices map[string]float64) *StaticProvider {
	table := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		table[symbol] = price
	}
	return &StaticProvider{prices: table}
}

// Name identifies the provider
func (s *StaticProvider) Name() string {
	return "static"
}

// CanServe reports true for every category; coverage is decided per symbol
func (s *StaticProvider) CanServe(_ domain.SecurityCategory) bool {
	return true
}

// FetchPrice returns the stored price for a symbol
func (s *StaticProvider) FetchPrice(symbol string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no static price for %s", symbol)
	}
	return price, nil
}

// SetPrice stores or replaces a price
func (s *StaticProvider) SetPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}
