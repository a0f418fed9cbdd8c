// Package events provides the diagnostics event bus for foliotrack.
// The analytics core emits informational and warning events here; the system
// functions identically when no sink is attached.
package events

import "time"

// EventType represents different diagnostic event types
type EventType string

const (
	RateFallback      EventType = "RATE_FALLBACK"
	RatesRefreshed    EventType = "RATES_REFRESHED"
	ExtremeProfitLoss EventType = "EXTREME_PROFIT_LOSS"
	PricesSynced      EventType = "PRICES_SYNCED"
	HoldingsImported  EventType = "HOLDINGS_IMPORTED"
	HoldingsChanged   EventType = "HOLDINGS_CHANGED"
	ErrorOccurred     EventType = "ERROR_OCCURRED"
)

// Severity classifies a diagnostic event
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event represents a diagnostic event with structured data
type Event struct {
	Type      EventType              `json:"type"`
	Severity  Severity               `json:"severity"`
	Timestamp time.Time              `json:"timestamp"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
