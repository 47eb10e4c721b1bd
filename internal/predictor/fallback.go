package predictor

import (
	"context"
	"fmt"
)

// Fallback asks Primary first and, on failure, answers from Secondary
// instead. The primary error is reported through Estimate.Cause, not returned,
// unless ctx itself is done.
type Fallback struct {
	Primary   Source
	Secondary Source
}

func (f Fallback) Estimate(ctx context.Context, location string) (Estimate, error) {
	est, err := f.Primary.Estimate(ctx, location)
	if err == nil {
		return est, nil
	}
	// A caller that has gone away gets no placeholder.
	if ctx.Err() != nil {
		return Estimate{}, err
	}

	alt, altErr := f.Secondary.Estimate(ctx, location)
	if altErr != nil {
		return Estimate{}, fmt.Errorf("fallback after %v: %w", err, altErr)
	}
	alt.FellBack = true
	alt.Cause = err
	return alt, nil
}
