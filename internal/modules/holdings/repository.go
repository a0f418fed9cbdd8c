// Package holdings provides the in-memory holding store, CSV import and
// current-price synchronization.
package holdings

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
)

// Repository is an in-memory holding store. Insertion order is preserved:
// callers get holdings back in the order they were supplied.
// Single-user, single-process - there is deliberately no persistence.
type Repository struct {
	mu       sync.RWMutex
	order    []string
	holdings map[string]domain.Holding
	log      zerolog.Logger
}

// NewRepository creates a new in-memory holding repository
func NewRepository(log zerolog.Logger) *Repository {
	return &Repository{
		order:    []string{},
		holdings: make(map[string]domain.Holding),
		log:      log.With().Str("repository", "holdings_inmemory").Logger(),
	}
}

// List returns all holdings in insertion order
func (r *Repository) List() []domain.Holding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Holding, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.holdings[id])
	}
	return out
}

// Get returns one holding by ID
func (r *Repository) Get(id string) (domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.holdings[id]
	if !ok {
		return domain.Holding{}, fmt.Errorf("holding %s not found", id)
	}
	return h, nil
}

// Add stores a new holding, assigning an ID when the caller supplied none
func (r *Repository) Add(h domain.Holding) (domain.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if _, exists := r.holdings[h.ID]; exists {
		return domain.Holding{}, fmt.Errorf("holding %s already exists", h.ID)
	}

	r.holdings[h.ID] = h
	r.order = append(r.order, h.ID)
	return h, nil
}

// Update replaces an existing holding
func (r *Repository) Update(h domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holdings[h.ID]; !exists {
		return fmt.Errorf("holding %s not found", h.ID)
	}
	r.holdings[h.ID] = h
	return nil
}

// Delete removes a holding by ID
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holdings[id]; !exists {
		return fmt.Errorf("holding %s not found", id)
	}
	delete(r.holdings, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll swaps the entire holding set, preserving the order of the
// replacement slice. Holdings without IDs get one assigned.
func (r *Repository) ReplaceAll(holdings []domain.Holding) []domain.Holding {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = make([]string, 0, len(holdings))
	r.holdings = make(map[string]domain.Holding, len(holdings))

	out := make([]domain.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.ID == "" {
			h.ID = uuid.New().String()
		}
		if _, exists := r.holdings[h.ID]; exists {
			// Last write wins on duplicate IDs, order keeps the first slot
			r.holdings[h.ID] = h
			continue
		}
		r.holdings[h.ID] = h
		r.order = append(r.order, h.ID)
		out = append(out, h)
	}

	r.log.Info().Int("count", len(r.order)).Msg("Replaced holding set")
	return out
}

// SetCurrentPrice records a freshly fetched price on a holding
func (r *Repository) SetCurrentPrice(id string, price float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holdings[id]
	if !ok {
		return fmt.Errorf("holding %s not found", id)
	}
	h.CurrentPrice = &price
	h.LastUpdated = &at
	r.holdings[id] = h
	return nil
}

// Count returns the number of stored holdings
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
