package models

import "time"

// Event types written to the prediction event log.
const (
	EventPrediction     = "PREDICTION"
	EventFallback       = "FALLBACK"
	EventRejected       = "REJECTED"
	EventEndpointFailed = "ENDPOINT_FAILED"
	EventSessionOpened  = "SESSION_OPENED"
	EventSessionClosed  = "SESSION_CLOSED"
	EventSessionExpired = "SESSION_EXPIRED"
)

// PredictionEvent is a single log entry.
type PredictionEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id,omitempty"`
	Location    string    `json:"location,omitempty"`
	AQI         *int      `json:"aqi,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
