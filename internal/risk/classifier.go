package risk

import (
	"fmt"

	"github.com/climatesense/climatesense/internal/common"
	"github.com/climatesense/climatesense/internal/weather"
)

// Details carries the snapshot fields the classification was based on.
type Details struct {
	TempC       float64 `json:"temp_c"`
	WindSpeedMS float64 `json:"wind_speed_ms"`
	Description string  `json:"description"`
}

// Assessment is the primary weather-risk classification for one snapshot.
type Assessment struct {
	Level     Level   `json:"risk_level"`
	Reasoning string  `json:"reasoning"`
	Details   Details `json:"details"`
}

// ClassifyConditions maps current-condition measurements to a primary risk
// level. The decision list is first-match and its order is contractual:
// an active thunderstorm outranks any wind reading.
func ClassifyConditions(snap weather.Snapshot) Assessment {
	desc := snap.Description
	if desc == "" {
		desc = "unknown"
	}
	wind := snap.WindSpeedMS

	a := Assessment{
		Level:     LevelLow,
		Reasoning: "Conditions are calm.",
		Details: Details{
			TempC:       snap.TemperatureC,
			WindSpeedMS: wind,
			Description: desc,
		},
	}

	switch {
	case common.HasAny(desc, "thunderstorm", "squalls"):
		a.Level = LevelHigh
		a.Reasoning = "Active thunderstorm or squalls reported."
	case common.HasAny(desc, "rain") && wind > 15:
		a.Level = LevelHigh
		a.Reasoning = fmt.Sprintf("Heavy rain combined with high wind speed (%g m/s).", wind)
	case common.HasAny(desc, "rain"):
		a.Level = LevelModerate
		a.Reasoning = "Rain reported. Monitor conditions."
	case wind > 20:
		a.Level = LevelHigh
		a.Reasoning = fmt.Sprintf("Extreme wind speed (%g m/s) detected.", wind)
	case wind > 15:
		a.Level = LevelModerate
		a.Reasoning = fmt.Sprintf("High wind speed (%g m/s) detected.", wind)
	}

	return a
}
