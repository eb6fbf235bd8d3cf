package risk

import "math"

// NOAA/Rothfusz heat-index regression coefficients, Fahrenheit form.
// These are contractual: the reported index must match the standard table.
const (
	hiC1 = -42.379
	hiC2 = 2.04901523
	hiC3 = 10.14333127
	hiC4 = -0.22475541
	hiC5 = -6.83783e-3
	hiC6 = -5.481717e-2
	hiC7 = 1.22874e-3
	hiC8 = 8.5282e-4
	hiC9 = -1.99e-6
)

// HeatAssessment is the derived heat-stress classification.
type HeatAssessment struct {
	Risk    Level    `json:"heat_risk"`
	IndexC  *float64 `json:"heat_index_c"` // nil when inputs were invalid
	Warning string   `json:"warning"`
}

// ClassifyHeat computes the apparent temperature from air temperature and
// relative humidity and maps it to a heat-risk tier. It never fails: invalid
// inputs yield a LOW assessment with a nil index and an explanatory warning.
func ClassifyHeat(tempC, humidityPct float64) HeatAssessment {
	if math.IsNaN(tempC) || math.IsNaN(humidityPct) || humidityPct < 0 || humidityPct > 100 {
		return HeatAssessment{
			Risk:    LevelLow,
			Warning: "Heat index unavailable: temperature or humidity reading is invalid.",
		}
	}

	indexC := round1(heatIndexC(tempC, humidityPct))

	a := HeatAssessment{IndexC: &indexC}
	switch {
	case indexC >= 40:
		a.Risk = LevelExtreme
		a.Warning = "Extreme heat stress. Avoid outdoor activity."
	case indexC >= 32:
		a.Risk = LevelHigh
		a.Warning = "High heat stress. Limit prolonged outdoor exposure."
	case indexC >= 27:
		a.Risk = LevelModerate
		a.Warning = "Moderate heat stress. Stay hydrated."
	default:
		a.Risk = LevelLow
		a.Warning = "Heat stress is low."
	}
	return a
}

// heatIndexC computes the heat index in Celsius. Below 80°F the regression
// does not apply and the index equals the air temperature.
func heatIndexC(tempC, rh float64) float64 {
	tf := tempC*9/5 + 32
	if tf < 80 {
		return tempC
	}

	hi := hiC1 +
		hiC2*tf +
		hiC3*rh +
		hiC4*tf*rh +
		hiC5*tf*tf +
		hiC6*rh*rh +
		hiC7*tf*tf*rh +
		hiC8*tf*rh*rh +
		hiC9*tf*tf*rh*rh

	return (hi - 32) * 5 / 9
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
