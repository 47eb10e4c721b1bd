package aqi

import (
	"time"

	"aqi_predictor/internal/models"

	"github.com/google/uuid"
)

// NewReading builds an immutable reading. Category and color are always
// derived from index here; nothing else sets them.
func NewReading(location string, index int, p models.Pollutants, origin models.Origin, at time.Time) models.Reading {
	c := Classify(index)
	return models.Reading{
		ID:          uuid.NewString(),
		Location:    location,
		AQI:         index,
		Category:    c.Label,
		Color:       c.Color,
		Timestamp:   at.UTC(),
		Pollutants:  p,
		Origin:      origin,
		Placeholder: origin != models.OriginEndpoint,
	}
}
