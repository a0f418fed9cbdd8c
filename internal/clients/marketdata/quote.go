package marketdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
)

// QuoteProvider fetches prices from a JSON quote endpoint. The endpoint
// is expected to answer GET {baseURL}/quote?symbol=X with
// {"symbol": "X", "price": 123.45}.
type QuoteProvider struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewQuoteProvider creates an HTTP quote provider
func NewQuoteProvider(baseURL string, log zerolog.Logger) *QuoteProvider {
	return &QuoteProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "quote").Logger(),
	}
}

// Name identifies the provider
func (q *QuoteProvider) Name() string {
	return "quote"
}

// CanServe reports true for exchange-traded categories
func (q *QuoteProvider) CanServe(category domain.SecurityCategory) bool {
	switch category {
	case domain.CategoryStock, domain.CategoryETF, domain.CategoryMutualFund, domain.CategoryCrypto:
		return true
	default:
		return false
	}
}

type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// FetchPrice fetches the current price for a symbol
func (q *QuoteProvider) FetchPrice(symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s", q.baseURL, url.QueryEscape(symbol))

	resp, err := q.client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote endpoint returned status %d", resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("failed to decode quote response: %w", err)
	}

	if quote.Price <= 0 {
		return 0, fmt.Errorf("quote endpoint returned non-positive price %f for %s", quote.Price, symbol)
	}

	return quote.Price, nil
}
