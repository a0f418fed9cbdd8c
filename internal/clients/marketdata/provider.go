// Package marketdata provides current security prices from an ordered
// chain of providers with caching and per-provider rate limiting.
package marketdata

import (
	"github.com/aristath/foliotrack/internal/domain"
)

// Provider fetches current prices for a subset of security categories
type Provider interface {
	// Name identifies the provider in logs and cache keys
	Name() string

	// CanServe reports whether this provider quotes the given category
	CanServe(category domain.SecurityCategory) bool

	// FetchPrice returns the current price for a symbol
	FetchPrice(symbol string) (float64, error)
}
