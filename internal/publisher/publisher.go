// Package publisher forwards produced readings to downstream consumers.
package publisher

import (
	"context"

	"aqi_predictor/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, r models.Reading) error
	Close()
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, models.Reading) error { return nil }
func (Noop) Close()                                        {}
