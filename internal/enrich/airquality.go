package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/weather"
)

// AQITierName returns the fixed qualitative name for a 1-5 pollutant index.
func AQITierName(index int) string {
	switch index {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	case 5:
		return "Very Poor"
	default:
		return "Unknown"
	}
}

// AirQualityAnalyzer pairs the raw pollutant index with a short narrative
// analysis from the completion service.
type AirQualityAnalyzer struct {
	completer TextCompleter
	logger    *slog.Logger
}

func NewAirQualityAnalyzer(c TextCompleter, logger *slog.Logger) *AirQualityAnalyzer {
	return &AirQualityAnalyzer{completer: c, logger: logger}
}

// Analyze builds the structured air-quality report. The numeric index always
// passes through unchanged; only the narrative degrades on failure.
func (a *AirQualityAnalyzer) Analyze(ctx context.Context, reading weather.AirQualityReading) risk.AirQuality {
	if reading.Index < 1 {
		return risk.AirQuality{Narrative: AirQualityUnavailable}
	}

	forecastDesc := "unavailable"
	if reading.ForecastIndex != nil {
		forecastDesc = fmt.Sprintf("%d (%s)", *reading.ForecastIndex, AQITierName(*reading.ForecastIndex))
	}

	prompt := fmt.Sprintf(`You are an air quality analyst.
The current pollutant index is %d on a 1-5 scale, which is rated "%s".
Tomorrow's forecast index is: %s.
Write a short analysis (2-3 sentences) that explicitly mentions the numeric
index, its rating name, and whether tomorrow looks better, worse, or the same.`,
		reading.Index, AQITierName(reading.Index), forecastDesc)

	out := risk.AirQuality{Index: reading.Index, ForecastIndex: reading.ForecastIndex}

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("air quality narrative failed", "error", err)
		out.Narrative = AirQualityErrorNarrative
		return out
	}
	out.Narrative = strings.TrimSpace(text)
	return out
}
