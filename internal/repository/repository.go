package repository

import (
	"context"
	"database/sql"
	"time"

	"aqi_predictor/internal/models"
)

type EventRepo interface {
	Append(ctx context.Context, e models.PredictionEvent) error
	List(ctx context.Context, q EventQuery) ([]models.PredictionEvent, error)
}

// EventQuery filters List. Zero values mean "no filter".
type EventQuery struct {
	From      time.Time
	To        time.Time
	Type      string
	SessionID string
	Limit     int
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
