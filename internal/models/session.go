package models

import "time"

// Session is a read-only snapshot of one open AQI view.
type Session struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Current    *Reading  `json:"current"`
	History    []Reading `json:"history"` // newest first
}
