// Package predictor produces raw AQI estimates for a location, either from an
// external prediction endpoint or from a local placeholder generator.
package predictor

import (
	"context"

	"aqi_predictor/internal/models"
)

// Estimate is the raw output of a Source, before classification.
type Estimate struct {
	Index      int
	Pollutants models.Pollutants
	Origin     models.Origin

	// FellBack is set when the primary source failed and the value came from
	// the fallback instead; Cause holds the primary failure.
	FellBack bool
	Cause    error
}

// Source produces one estimate per call.
type Source interface {
	Estimate(ctx context.Context, location string) (Estimate, error)
}
