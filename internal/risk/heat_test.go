package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHeatBelowRegressionThreshold(t *testing.T) {
	// 26°C is 78.8°F, below the 80°F regression threshold: the heat index
	// equals the air temperature without adjustment.
	a := ClassifyHeat(26.0, 40)
	require.NotNil(t, a.IndexC)
	assert.Equal(t, 26.0, *a.IndexC)
	assert.Equal(t, LevelLow, a.Risk)
}

func TestClassifyHeatRegressionBoundary(t *testing.T) {
	// 26.7°C is right at the 80°F boundary; the regression result there is
	// continuous with the identity branch.
	a := ClassifyHeat(26.7, 40)
	require.NotNil(t, a.IndexC)
	assert.InDelta(t, 26.7, *a.IndexC, 0.2)
	assert.Equal(t, LevelLow, a.Risk)
}

func TestClassifyHeatExtreme(t *testing.T) {
	// 35°C at 70% humidity yields a heat index above 50°C.
	a := ClassifyHeat(35, 70)
	require.NotNil(t, a.IndexC)
	assert.Greater(t, *a.IndexC, 40.0)
	assert.InDelta(t, 50.3, *a.IndexC, 0.2)
	assert.Equal(t, LevelExtreme, a.Risk)
}

func TestClassifyHeatTiers(t *testing.T) {
	tests := []struct {
		name     string
		tempC    float64
		humidity float64
		want     Level
	}{
		{"cool day", 18, 60, LevelLow},
		{"warm humid day", 29, 50, LevelModerate},
		{"hot humid day", 32, 60, LevelHigh},
		{"dangerous heat", 38, 60, LevelExtreme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ClassifyHeat(tt.tempC, tt.humidity)
			require.NotNil(t, a.IndexC)
			assert.Equal(t, tt.want, a.Risk, "index=%g", *a.IndexC)
		})
	}
}

func TestClassifyHeatInvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		tempC    float64
		humidity float64
	}{
		{"NaN temperature", math.NaN(), 50},
		{"NaN humidity", 30, math.NaN()},
		{"negative humidity", 30, -1},
		{"humidity above 100", 30, 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ClassifyHeat(tt.tempC, tt.humidity)
			assert.Nil(t, a.IndexC)
			assert.Equal(t, LevelLow, a.Risk)
			assert.NotEmpty(t, a.Warning)
		})
	}
}

func TestClassifyHeatRoundsToOneDecimal(t *testing.T) {
	a := ClassifyHeat(35, 70)
	require.NotNil(t, a.IndexC)
	assert.Equal(t, math.Round(*a.IndexC*10)/10, *a.IndexC)
}
