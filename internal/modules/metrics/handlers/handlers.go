// Package handlers provides HTTP handlers for portfolio metrics.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/modules/metrics"
)

// HoldingLister supplies the current holding set
type HoldingLister interface {
	List() []domain.Holding
}

// Handler handles portfolio metrics HTTP requests
type Handler struct {
	calculator *metrics.Calculator
	aggregator *metrics.Aggregator
	holdings   HoldingLister
	defaultCcy string
	log        zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(calculator *metrics.Calculator, aggregator *metrics.Aggregator, holdings HoldingLister, defaultCurrency string, log zerolog.Logger) *Handler {
	return &Handler{
		calculator: calculator,
		aggregator: aggregator,
		holdings:   holdings,
		defaultCcy: defaultCurrency,
		log:        log.With().Str("handler", "metrics").Logger(),
	}
}

// targetCurrency resolves the ?currency= query parameter
func (h *Handler) targetCurrency(r *http.Request) string {
	if ccy := strings.ToUpper(r.URL.Query().Get("currency")); ccy != "" {
		return ccy
	}
	return h.defaultCcy
}

// HandlePortfolioMetrics handles GET /api/portfolio/metrics
func (h *Handler) HandlePortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	currency := h.targetCurrency(r)
	portfolio := h.aggregator.PortfolioMetrics(h.holdings.List(), currency)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": portfolio,
		"metadata": map[string]interface{}{
			"currency":  currency,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleHoldingMetrics handles GET /api/portfolio/holdings
func (h *Handler) HandleHoldingMetrics(w http.ResponseWriter, r *http.Request) {
	currency := h.targetCurrency(r)
	holdingMetrics := h.calculator.HoldingMetrics(h.holdings.List(), currency)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"holdings": holdingMetrics,
			"count":    len(holdingMetrics),
		},
		"metadata": map[string]interface{}{
			"currency":  currency,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
