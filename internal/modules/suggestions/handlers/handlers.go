// Package handlers provides HTTP handlers for portfolio suggestions.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/modules/metrics"
	"github.com/aristath/foliotrack/internal/modules/suggestions"
)

// HoldingLister supplies the current holding set
type HoldingLister interface {
	List() []domain.Holding
}

// Handler handles suggestion HTTP requests
type Handler struct {
	generator  *suggestions.Generator
	calculator *metrics.Calculator
	aggregator *metrics.Aggregator
	holdings   HoldingLister
	defaultCcy string
	log        zerolog.Logger
}

// NewHandler creates a new suggestions handler
func NewHandler(
	generator *suggestions.Generator,
	calculator *metrics.Calculator,
	aggregator *metrics.Aggregator,
	holdings HoldingLister,
	defaultCurrency string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		generator:  generator,
		calculator: calculator,
		aggregator: aggregator,
		holdings:   holdings,
		defaultCcy: defaultCurrency,
		log:        log.With().Str("handler", "suggestions").Logger(),
	}
}

// HandleSuggestions handles GET /api/portfolio/suggestions
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = h.defaultCcy
	}

	tolerance, ok := parseTolerance(r.URL.Query().Get("risk_tolerance"))
	if !ok {
		http.Error(w, "risk_tolerance must be Conservative, Moderate or Aggressive", http.StatusBadRequest)
		return
	}

	holdings := h.holdings.List()
	holdingMetrics := h.calculator.HoldingMetrics(holdings, currency)
	portfolio := h.aggregator.Aggregate(holdings, holdingMetrics, currency)
	list := h.generator.Generate(portfolio, holdingMetrics, tolerance)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"suggestions":    list,
			"count":          len(list),
			"risk_tolerance": tolerance,
		},
		"metadata": map[string]interface{}{
			"currency":  currency,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// parseTolerance accepts any casing; blank defaults to Moderate
func parseTolerance(raw string) (domain.RiskTolerance, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return domain.ToleranceModerate, true
	case "conservative":
		return domain.ToleranceConservative, true
	case "moderate":
		return domain.ToleranceModerate, true
	case "aggressive":
		return domain.ToleranceAggressive, true
	default:
		return "", false
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
