package marketdata

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/foliotrack/internal/domain"
)

const (
	defaultCacheTTL       = 15 * time.Minute
	defaultCacheSweep     = 30 * time.Minute
	defaultRequestsPerSec = 2
	defaultRequestsBurst  = 5
)

// Chain queries providers in order until one can serve the symbol.
// Results are cached with a TTL, and each provider gets its own rate
// limiter so one hot symbol cannot exhaust an upstream quota.
// Chain implements domain.PriceSource.
type Chain struct {
	providers []Provider
	limiters  map[string]*rate.Limiter
	cache     *cache.Cache
	log       zerolog.Logger
}

// NewChain creates a provider chain with the default TTL cache
func NewChain(providers []Provider, log zerolog.Logger) *Chain {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, p := range providers {
		limiters[p.Name()] = rate.NewLimiter(rate.Limit(defaultRequestsPerSec), defaultRequestsBurst)
	}

	return &Chain{
		providers: providers,
		limiters:  limiters,
		cache:     cache.New(defaultCacheTTL, defaultCacheSweep),
		log:       log.With().Str("client", "marketdata_chain").Logger(),
	}
}

// Price returns the current price for a symbol, trying each provider in
// order. The boolean is false when no provider could serve the symbol.
func (c *Chain) Price(category domain.SecurityCategory, symbol string) (float64, bool) {
	cacheKey := string(category) + ":" + symbol
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(float64), true
	}

	for _, p := range c.providers {
		if !p.CanServe(category) {
			continue
		}

		limiter := c.limiters[p.Name()]
		if limiter != nil && !limiter.Allow() {
			c.log.Debug().
				Str("provider", p.Name()).
				Str("symbol", symbol).
				Msg("Rate limit reached, trying next provider")
			continue
		}

		price, err := p.FetchPrice(symbol)
		if err != nil {
			c.log.Warn().
				Err(err).
				Str("provider", p.Name()).
				Str("symbol", symbol).
				Msg("Provider fetch failed, trying next")
			continue
		}

		c.cache.Set(cacheKey, price, cache.DefaultExpiration)
		c.log.Debug().
			Str("provider", p.Name()).
			Str("symbol", symbol).
			Float64("price", price).
			Msg("Price fetched")
		return price, true
	}

	return 0, false
}
