// Package exchangerate provides exchange rate fetching from
// exchangerate-api.com compatible endpoints.
package exchangerate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client for exchangerate-api.com style endpoints.
// GET {baseURL}/{base} answers {"base": "USD", "rates": {"EUR": 0.92, ...}}.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new exchange rate client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "exchangerate-api").Logger(),
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchTable fetches the full rate table for a base currency. Values are
// units of each currency per one unit of base.
func (c *Client) FetchTable(baseCurrency string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, baseCurrency)
	c.log.Debug().Str("url", url).Msg("Fetching rate table")

	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("rate table request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}

	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rate endpoint returned empty table for %s", baseCurrency)
	}

	c.log.Info().
		Str("base", baseCurrency).
		Int("currencies", len(parsed.Rates)).
		Msg("Rate table fetched")

	return parsed.Rates, nil
}
