package service

import (
	"time"

	"aqi_predictor/internal/aqi"
	"aqi_predictor/internal/models"
)

type PredictParams struct {
	SessionID string
	Location  string
	// Endpoint overrides the configured default for this call.
	Endpoint string
}

// Outcome is everything the view renders after a successful attempt.
type Outcome struct {
	Reading     models.Reading       `json:"reading"`
	Notice      models.Notice        `json:"notice"`
	Placeholder bool                 `json:"placeholder"`
	Breakdown   []aqi.PollutantLevel `json:"breakdown"`
}

// Ticket is returned when a session is opened.
type Ticket struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogFilter supports history filtering by time range, type and session.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "PREDICTION", "FALLBACK", "REJECTED", ...
	SessionID string
	Limit     int
}
