package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Manager handles event emission and logging.
// A nil *Manager is a valid no-op sink: every method checks the receiver, so
// components can emit diagnostics unconditionally.
type Manager struct {
	bus *Bus
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit publishes an event to the bus and logs it
func (m *Manager) Emit(severity Severity, eventType EventType, module, message string, data map[string]interface{}) {
	if m == nil {
		return
	}

	event := &Event{
		Type:      eventType,
		Severity:  severity,
		Timestamp: time.Now(),
		Module:    module,
		Message:   message,
		Data:      data,
	}

	if m.bus != nil {
		m.bus.Publish(event)
	}

	eventJSON, _ := json.Marshal(event)
	logEvent := m.log.Info()
	switch severity {
	case SeverityWarning:
		logEvent = m.log.Warn()
	case SeverityError:
		logEvent = m.log.Error()
	}
	logEvent.
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg(message)
}

// Info emits an informational event
func (m *Manager) Info(eventType EventType, module, message string, data map[string]interface{}) {
	m.Emit(SeverityInfo, eventType, module, message, data)
}

// Warn emits a warning event
func (m *Manager) Warn(eventType EventType, module, message string, data map[string]interface{}) {
	m.Emit(SeverityWarning, eventType, module, message, data)
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, data map[string]interface{}) {
	if m == nil {
		return
	}
	m.Emit(SeverityError, ErrorOccurred, module, err.Error(), data)
}
