package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all suggestion routes.
// Registered as a flat path so it can share the /portfolio prefix with
// the metrics routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio/suggestions", h.HandleSuggestions)
}
