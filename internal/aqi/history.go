package aqi

import "aqi_predictor/internal/models"

// HistoryLimit is the maximum number of readings a history keeps.
const HistoryLimit = 10

// History is a newest-first, bounded list of readings. The zero value is an
// empty history. Values are never modified in place: Append returns a new one.
type History struct {
	readings []models.Reading
}

// Append returns a new history with r at position 0 followed by at most
// HistoryLimit-1 of the previous readings.
func (h History) Append(r models.Reading) History {
	keep := len(h.readings)
	if keep > HistoryLimit-1 {
		keep = HistoryLimit - 1
	}
	out := make([]models.Reading, 0, keep+1)
	out = append(out, r)
	out = append(out, h.readings[:keep]...)
	return History{readings: out}
}

// Latest returns the most recent reading.
func (h History) Latest() (models.Reading, bool) {
	if len(h.readings) == 0 {
		return models.Reading{}, false
	}
	return h.readings[0], true
}

// Readings returns a copy of the whole list, newest first.
func (h History) Readings() []models.Reading {
	out := make([]models.Reading, len(h.readings))
	copy(out, h.readings)
	return out
}

func (h History) Len() int { return len(h.readings) }
