package risk

// AirQuality pairs the raw pollutant index with its narrative analysis.
// Index 0 means the reading was unavailable this cycle.
type AirQuality struct {
	Index         int    `json:"index"`
	Narrative     string `json:"narrative"`
	ForecastIndex *int   `json:"forecast_index,omitempty"`
}

// Report is the accumulating structured record for one monitoring cycle.
// Fields are filled incrementally by the orchestrator driving each pipeline
// stage in sequence; a report is never mutated after its cycle is persisted.
type Report struct {
	PrimaryLevel Level   `json:"risk_level"`
	Reasoning    string  `json:"reasoning"`
	Details      Details `json:"details"`

	HeatRisk    Level    `json:"heat_risk"`
	HeatIndexC  *float64 `json:"heat_index_c"`
	HeatWarning string   `json:"heat_warning"`

	AirQuality AirQuality `json:"air_quality"`

	FinalLevel     Level  `json:"final_level"`
	FinalReasoning string `json:"final_reasoning"`

	Trend string `json:"trend"`
}
