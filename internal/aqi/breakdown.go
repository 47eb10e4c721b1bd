package aqi

import "aqi_predictor/internal/models"

// Scale maxima per pollutant. They bound the simulated values and scale the
// percent bars of the breakdown.
const (
	ScalePM25 = 100
	ScalePM10 = 150
	ScaleO3   = 200
	ScaleNO2  = 100
	ScaleSO2  = 50
	ScaleCO   = 10
)

const (
	unitMicrograms = "μg/m³"
	unitMilligrams = "mg/m³"
)

// PollutantLevel is one row of the pollutant breakdown.
type PollutantLevel struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"` // 0..100
}

// Breakdown returns the six pollutant rows in display order.
func Breakdown(p models.Pollutants) []PollutantLevel {
	rows := []PollutantLevel{
		{Name: "PM2.5", Value: p.PM25, Unit: unitMicrograms, Max: ScalePM25},
		{Name: "PM10", Value: p.PM10, Unit: unitMicrograms, Max: ScalePM10},
		{Name: "O₃", Value: p.O3, Unit: unitMicrograms, Max: ScaleO3},
		{Name: "NO₂", Value: p.NO2, Unit: unitMicrograms, Max: ScaleNO2},
		{Name: "SO₂", Value: p.SO2, Unit: unitMicrograms, Max: ScaleSO2},
		{Name: "CO", Value: p.CO, Unit: unitMilligrams, Max: ScaleCO},
	}
	for i := range rows {
		rows[i].Percent = percentOf(rows[i].Value, rows[i].Max)
	}
	return rows
}

func percentOf(v, max float64) float64 {
	pct := v / max * 100
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	default:
		return pct
	}
}
