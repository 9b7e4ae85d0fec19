package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event emitted by the workflow engine.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	VersionID     int64                  `json:"version_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a new domain event with a generated id and timestamp.
func New(eventType Type, versionID int64, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		VersionID:     versionID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewWithCorrelation creates an event linked to an existing correlation chain.
func NewWithCorrelation(eventType Type, versionID int64, payload map[string]interface{}, correlationID string) *Event {
	e := New(eventType, versionID, payload)
	e.CorrelationID = correlationID
	return e
}

// PayloadString retrieves a string value from the payload.
func (e *Event) PayloadString(key string) string {
	if v, ok := e.Payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// PayloadInt retrieves an int64 value from the payload.
func (e *Event) PayloadInt(key string) int64 {
	if v, ok := e.Payload[key]; ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return 0
}
