package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio metrics routes.
// Registered as flat paths so the /portfolio prefix can be shared with
// the suggestions routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio/metrics", h.HandlePortfolioMetrics)
	r.Get("/portfolio/holdings", h.HandleHoldingMetrics)
}
