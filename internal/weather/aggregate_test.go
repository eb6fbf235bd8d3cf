package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(t *testing.T, value string, min, max float64, icon string, pop float64) ForecastSample {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ForecastSample{Timestamp: ts, TempMinC: min, TempMaxC: max, Icon: icon, PrecipProb: pop}
}

func TestAggregateDailySortsOutOfOrderInput(t *testing.T) {
	// Two dates, fed newest-first.
	samples := []ForecastSample{
		sampleAt(t, "2025-11-17T09:00:00Z", 19, 24, "01d", 0.1),
		sampleAt(t, "2025-11-16T09:00:00Z", 21, 27, "10d", 0.6),
		sampleAt(t, "2025-11-17T15:00:00Z", 18, 26, "01d", 0.3),
		sampleAt(t, "2025-11-16T12:00:00Z", 20, 29, "10d", 0.4),
	}

	out := AggregateDaily(samples)
	require.Len(t, out, 2)

	assert.Equal(t, "2025-11-16", out[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-11-17", out[1].Date.Format("2006-01-02"))

	assert.Equal(t, 20.0, out[0].TempMinC)
	assert.Equal(t, 29.0, out[0].TempMaxC)
	assert.Equal(t, 0.6, out[0].MaxPrecipProb)

	assert.Equal(t, 18.0, out[1].TempMinC)
	assert.Equal(t, 26.0, out[1].TempMaxC)
	assert.Equal(t, 0.3, out[1].MaxPrecipProb)
}

func TestAggregateDailyIconMode(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(t, "2025-11-16T00:00:00Z", 20, 25, "01d", 0),
		sampleAt(t, "2025-11-16T03:00:00Z", 20, 25, "10d", 0),
		sampleAt(t, "2025-11-16T06:00:00Z", 20, 25, "10d", 0),
		sampleAt(t, "2025-11-16T09:00:00Z", 20, 25, "01d", 0),
	}

	out := AggregateDaily(samples)
	require.Len(t, out, 1)

	// "10d" reaches count 2 before "01d" does, so it wins the tie.
	assert.Equal(t, "10d", out[0].Icon)
}

func TestAggregateDailyAnchorIsFirstSampleOfDay(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(t, "2025-11-16T12:00:00Z", 20, 25, "01d", 0),
		sampleAt(t, "2025-11-16T03:00:00Z", 19, 24, "01d", 0),
	}

	out := AggregateDaily(samples)
	require.Len(t, out, 1)
	// Anchor keeps the first-encountered sample's timestamp, not the earliest.
	assert.Equal(t, "2025-11-16T12:00:00Z", out[0].Date.Format(time.RFC3339))
}

func TestAggregateDailyTempInvariant(t *testing.T) {
	samples := []ForecastSample{
		sampleAt(t, "2025-11-16T00:00:00Z", 22, 22, "01d", 0),
		sampleAt(t, "2025-11-16T03:00:00Z", 18, 30, "01d", 0),
	}

	out := AggregateDaily(samples)
	require.Len(t, out, 1)
	assert.LessOrEqual(t, out[0].TempMinC, out[0].TempMaxC)
}

func TestAggregateDailyEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil))
}
