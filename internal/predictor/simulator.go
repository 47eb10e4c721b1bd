package predictor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"aqi_predictor/internal/aqi"
	"aqi_predictor/internal/models"
)

// Simulated index range, inclusive.
const (
	SimulatedMinIndex = 1
	SimulatedMaxIndex = 300
)

// Simulator fabricates plausible-looking readings. Its output is a
// placeholder and is never a real estimate.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulator returns a simulator drawing from rnd; nil seeds a fresh generator.
func NewSimulator(rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &Simulator{rnd: rnd}
}

// Estimate never fails.
func (s *Simulator) Estimate(_ context.Context, _ string) (Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Estimate{
		Index: SimulatedMinIndex + s.rnd.IntN(SimulatedMaxIndex-SimulatedMinIndex+1),
		Pollutants: models.Pollutants{
			PM25: s.below(aqi.ScalePM25),
			PM10: s.below(aqi.ScalePM10),
			O3:   s.below(aqi.ScaleO3),
			NO2:  s.below(aqi.ScaleNO2),
			SO2:  s.below(aqi.ScaleSO2),
			CO:   s.below(aqi.ScaleCO),
		},
		Origin: models.OriginSimulated,
	}, nil
}

// below draws an integral value in [0, n).
func (s *Simulator) below(n int) float64 {
	return float64(s.rnd.IntN(n))
}
