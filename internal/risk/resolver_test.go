package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestResolveFinalNumericFloor(t *testing.T) {
	tests := []struct {
		name    string
		primary Level
		heat    Level
		aqi     int
		want    Level
	}{
		{"all low", LevelLow, LevelLow, 1, LevelLow},
		{"aqi unavailable counts as none", LevelLow, LevelLow, 0, LevelLow},
		{"primary dominates", LevelHigh, LevelLow, 1, LevelHigh},
		{"heat dominates", LevelLow, LevelExtreme, 1, LevelCritical},
		{"aqi dominates", LevelLow, LevelLow, 4, LevelHigh},
		{"very poor air", LevelLow, LevelLow, 5, LevelCritical},
		{"moderate floor", LevelModerate, LevelLow, 2, LevelModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, reasoning := ResolveFinal(context.Background(), nil, tt.primary, tt.heat, tt.aqi)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, GenericFinalReasoning, reasoning)
		})
	}
}

// The narrative confirmation must never lower severity below the computed floor.
func TestResolveFinalMonotonic(t *testing.T) {
	levels := []Level{LevelLow, LevelModerate, LevelHigh, LevelExtreme}
	downgrading := &stubCompleter{response: "LOW: everything seems fine to me."}

	for _, primary := range levels {
		for _, heat := range levels {
			for aqi := 0; aqi <= 5; aqi++ {
				level, _ := ResolveFinal(context.Background(), downgrading, primary, heat, aqi)

				floor := primary.Score()
				if heat.Score() > floor {
					floor = heat.Score()
				}
				if aqi > floor {
					floor = aqi
				}
				assert.GreaterOrEqual(t, level.Score(), floor,
					"primary=%s heat=%s aqi=%d", primary, heat, aqi)
			}
		}
	}
}

func TestResolveFinalAcceptsNarrativeReasoning(t *testing.T) {
	c := &stubCompleter{response: "HIGH: sustained winds and poor air make outdoor work unsafe."}
	level, reasoning := ResolveFinal(context.Background(), c, LevelHigh, LevelLow, 2)
	assert.Equal(t, LevelHigh, level)
	assert.Equal(t, "sustained winds and poor air make outdoor work unsafe.", reasoning)
}

func TestResolveFinalAcceptsUpgrade(t *testing.T) {
	c := &stubCompleter{response: "CRITICAL: conditions are deteriorating faster than the scores suggest."}
	level, _ := ResolveFinal(context.Background(), c, LevelModerate, LevelLow, 2)
	assert.Equal(t, LevelCritical, level)
}

func TestResolveFinalUnparseableNarrativeKeepsFloor(t *testing.T) {
	c := &stubCompleter{response: "I am unable to assess this."}
	level, reasoning := ResolveFinal(context.Background(), c, LevelHigh, LevelLow, 1)
	assert.Equal(t, LevelHigh, level)
	assert.Equal(t, "I am unable to assess this.", reasoning)
}

func TestResolveFinalEnrichmentFailureFallsBackToFloor(t *testing.T) {
	c := &stubCompleter{err: errors.New("upstream timeout")}
	level, reasoning := ResolveFinal(context.Background(), c, LevelModerate, LevelHigh, 3)
	assert.Equal(t, LevelHigh, level)
	assert.Equal(t, GenericFinalReasoning, reasoning)
}

func TestLevelScores(t *testing.T) {
	assert.Equal(t, 5, LevelExtreme.Score())
	assert.Equal(t, 5, LevelCritical.Score())
	assert.Equal(t, 4, LevelHigh.Score())
	assert.Equal(t, 3, LevelModerate.Score())
	assert.Equal(t, 2, LevelLow.Score())
	assert.Equal(t, 1, LevelNone.Score())

	assert.Equal(t, LevelCritical, LevelFromScore(5))
	assert.Equal(t, LevelLow, LevelFromScore(1))
	assert.True(t, LevelHigh.AtLeast(LevelModerate))
	assert.False(t, LevelLow.AtLeast(LevelModerate))
}
