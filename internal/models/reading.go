package models

import "time"

// Origin tells where the index of a reading came from.
type Origin string

const (
	OriginEndpoint  Origin = "endpoint"
	OriginSimulated Origin = "simulated"
)

// Pollutants is the six-component breakdown attached to every reading.
type Pollutants struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`
}

// Reading is one classification result. Build it with aqi.NewReading so that
// Category and Color always agree with AQI.
type Reading struct {
	ID          string     `json:"id"`
	Location    string     `json:"location"`
	AQI         int        `json:"aqi"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	Timestamp   time.Time  `json:"timestamp"`
	Pollutants  Pollutants `json:"pollutants"`
	Origin      Origin     `json:"origin"`      // endpoint | simulated
	Placeholder bool       `json:"placeholder"` // true for mock data
}
