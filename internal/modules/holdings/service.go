package holdings

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
	"github.com/aristath/foliotrack/internal/events"
)

// Service coordinates the holding store, CSV import and price sync
type Service struct {
	repo   *Repository
	prices domain.PriceSource
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a new holdings service. prices may be nil when no
// market data source is configured; SyncPrices then becomes a no-op.
func NewService(repo *Repository, prices domain.PriceSource, evts *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		prices: prices,
		events: evts,
		log:    log.With().Str("service", "holdings").Logger(),
	}
}

// List returns all holdings in insertion order
func (s *Service) List() []domain.Holding {
	return s.repo.List()
}

// Get returns one holding by ID
func (s *Service) Get(id string) (domain.Holding, error) {
	return s.repo.Get(id)
}

// Add stores a new holding
func (s *Service) Add(h domain.Holding) (domain.Holding, error) {
	added, err := s.repo.Add(h)
	if err != nil {
		return domain.Holding{}, err
	}
	s.events.Info(events.HoldingsChanged, "holdings", "Holding added", map[string]interface{}{
		"holding_id": added.ID,
		"name":       added.Name,
	})
	return added, nil
}

// Update replaces an existing holding
func (s *Service) Update(h domain.Holding) error {
	if err := s.repo.Update(h); err != nil {
		return err
	}
	s.events.Info(events.HoldingsChanged, "holdings", "Holding updated", map[string]interface{}{
		"holding_id": h.ID,
	})
	return nil
}

// Delete removes a holding by ID
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.events.Info(events.HoldingsChanged, "holdings", "Holding removed", map[string]interface{}{
		"holding_id": id,
	})
	return nil
}

// ImportCSV parses CSV data and appends the parsed holdings to the store.
// Rows that fail to parse are reported in the result, not fatal.
func (s *Service) ImportCSV(r io.Reader) (*ImportResult, error) {
	result, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.Holding, 0, len(result.Imported))
	for _, h := range result.Imported {
		added, err := s.repo.Add(h)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: 0, Message: err.Error()})
			continue
		}
		stored = append(stored, added)
	}
	result.Imported = stored

	s.log.Info().
		Int("imported", len(result.Imported)).
		Int("errors", len(result.Errors)).
		Msg("CSV import completed")
	s.events.Info(events.HoldingsImported, "holdings", "Holdings imported from CSV", map[string]interface{}{
		"imported": len(result.Imported),
		"errors":   len(result.Errors),
	})

	return result, nil
}

// SyncResult summarizes a price synchronization run
type SyncResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SyncPrices fetches a fresh price for every holding the configured market
// data source can serve. Holdings without a matching source keep their
// existing price.
func (s *Service) SyncPrices(ctx context.Context) SyncResult {
	var result SyncResult
	if s.prices == nil {
		return result
	}

	now := time.Now().UTC()
	for _, h := range s.repo.List() {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Err(err).Msg("Price sync interrupted")
			break
		}

		price, ok := s.prices.Price(h.Category, h.Name)
		if !ok {
			result.Skipped++
			continue
		}
		if err := s.repo.SetCurrentPrice(h.ID, price, now); err != nil {
			s.log.Warn().Err(err).Str("holding_id", h.ID).Msg("Failed to store synced price")
			result.Skipped++
			continue
		}
		result.Updated++
	}

	s.log.Info().
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Price sync completed")
	s.events.Info(events.PricesSynced, "holdings", "Holding prices synchronized", map[string]interface{}{
		"updated": result.Updated,
		"skipped": result.Skipped,
	})

	return result
}
