// Package handlers provides HTTP handlers for currency operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/modules/currency"
)

// Handler handles currency HTTP requests
type Handler struct {
	engine     *currency.Engine
	rateSource domain.RateSource
	log        zerolog.Logger
}

// NewHandler creates a new currency handler.
// rateSource may be nil when no external rate provider is configured.
func NewHandler(engine *currency.Engine, rateSource domain.RateSource, log zerolog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		rateSource: rateSource,
		log:        log.With().Str("handler", "currency").Logger(),
	}
}

// ConvertRequest represents a request to convert currency
type ConvertRequest struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Amount       float64 `json:"amount"`
}

// HandleConvert handles POST /api/currency/convert
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FromCurrency == "" || req.ToCurrency == "" {
		http.Error(w, "from_currency and to_currency are required", http.StatusBadRequest)
		return
	}

	// Zero and negative amounts are allowed: the engine never validates
	// magnitudes, and identity conversion of 0 is well defined.
	result := h.engine.Convert(req.Amount, req.FromCurrency, req.ToCurrency)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetRate handles GET /api/currency/rate/{from}/{to}
func (h *Handler) HandleGetRate(w http.ResponseWriter, r *http.Request) {
	fromCurrency := chi.URLParam(r, "from")
	toCurrency := chi.URLParam(r, "to")

	if fromCurrency == "" || toCurrency == "" {
		http.Error(w, "from and to currencies are required", http.StatusBadRequest)
		return
	}

	rate := h.engine.GetRate(fromCurrency, toCurrency)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"from_currency": fromCurrency,
			"to_currency":   toCurrency,
			"rate":          rate,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetSupported handles GET /api/currency/supported
func (h *Handler) HandleGetSupported(w http.ResponseWriter, r *http.Request) {
	codes := h.engine.Supported()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"currencies": codes,
			"count":      len(codes),
			"reference":  currency.ReferenceCurrency,
			"rates":      h.engine.Rates(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleRefresh handles POST /api/currency/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.rateSource == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error": map[string]interface{}{
				"message": "No external rate source configured",
				"code":    "RATE_SOURCE_UNAVAILABLE",
			},
		})
		return
	}

	table, err := h.rateSource.FetchTable(currency.ReferenceCurrency)
	if err != nil {
		h.log.Warn().Err(err).Msg("Rate source fetch failed, keeping existing table")
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Rate source fetch failed, existing table untouched",
				"code":    "RATE_FETCH_FAILED",
			},
		})
		return
	}

	if err := h.engine.Refresh(table); err != nil {
		h.log.Warn().Err(err).Msg("Rate table rejected, keeping existing table")
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
				"code":    "RATE_TABLE_REJECTED",
			},
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"refreshed":  true,
			"currencies": len(h.engine.Rates()),
		},
		"metadata": map[string]interface{}{
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
