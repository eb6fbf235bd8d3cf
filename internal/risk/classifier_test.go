package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/climatesense/climatesense/internal/weather"
)

func TestClassifyConditions(t *testing.T) {
	tests := []struct {
		name          string
		desc          string
		wind          float64
		wantLevel     Level
		wantReasoning string
	}{
		{
			name:          "calm",
			desc:          "clear sky",
			wind:          3,
			wantLevel:     LevelLow,
			wantReasoning: "Conditions are calm.",
		},
		{
			name:          "thunderstorm",
			desc:          "thunderstorm with light rain",
			wind:          2,
			wantLevel:     LevelHigh,
			wantReasoning: "Active thunderstorm or squalls reported.",
		},
		{
			name:          "squalls",
			desc:          "squalls",
			wind:          0,
			wantLevel:     LevelHigh,
			wantReasoning: "Active thunderstorm or squalls reported.",
		},
		{
			name:          "rain with high wind",
			desc:          "moderate rain",
			wind:          18,
			wantLevel:     LevelHigh,
			wantReasoning: "Heavy rain combined with high wind speed (18 m/s).",
		},
		{
			name:          "rain alone",
			desc:          "light rain",
			wind:          5,
			wantLevel:     LevelModerate,
			wantReasoning: "Rain reported. Monitor conditions.",
		},
		{
			name:          "extreme wind",
			desc:          "clear sky",
			wind:          22,
			wantLevel:     LevelHigh,
			wantReasoning: "Extreme wind speed (22 m/s) detected.",
		},
		{
			name:          "high wind",
			desc:          "scattered clouds",
			wind:          16,
			wantLevel:     LevelModerate,
			wantReasoning: "High wind speed (16 m/s) detected.",
		},
		{
			name:          "wind exactly at threshold stays low",
			desc:          "few clouds",
			wind:          15,
			wantLevel:     LevelLow,
			wantReasoning: "Conditions are calm.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ClassifyConditions(weather.Snapshot{Description: tt.desc, WindSpeedMS: tt.wind})
			assert.Equal(t, tt.wantLevel, a.Level)
			assert.Equal(t, tt.wantReasoning, a.Reasoning)
		})
	}
}

// The decision list is first-match: a thunderstorm report must win over any
// wind reading, so the reasoning cites the storm, not the wind.
func TestClassifyConditionsPriorityOrder(t *testing.T) {
	a := ClassifyConditions(weather.Snapshot{Description: "thunderstorm", WindSpeedMS: 25})
	assert.Equal(t, LevelHigh, a.Level)
	assert.Equal(t, "Active thunderstorm or squalls reported.", a.Reasoning)

	// Rain plus wind above 15 cites both values, not the extreme-wind rule.
	a = ClassifyConditions(weather.Snapshot{Description: "heavy rain", WindSpeedMS: 25})
	assert.Equal(t, LevelHigh, a.Level)
	assert.Contains(t, a.Reasoning, "rain")
	assert.Contains(t, a.Reasoning, "25")
}

func TestClassifyConditionsIsTotalOnMissingFields(t *testing.T) {
	a := ClassifyConditions(weather.Snapshot{})
	assert.Equal(t, LevelLow, a.Level)
	assert.Equal(t, "unknown", a.Details.Description)
}

func TestClassifyConditionsLowForCalmSweep(t *testing.T) {
	for wind := 0.0; wind <= 15; wind += 2.5 {
		a := ClassifyConditions(weather.Snapshot{Description: "overcast clouds", WindSpeedMS: wind})
		assert.Equal(t, LevelLow, a.Level, fmt.Sprintf("wind=%g", wind))
	}
}
