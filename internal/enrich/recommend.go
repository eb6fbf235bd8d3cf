package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/weather"
)

// Recommender synthesizes a prioritized action list from all structured
// signals of the cycle.
type Recommender struct {
	completer TextCompleter
	logger    *slog.Logger
}

func NewRecommender(c TextCompleter, logger *slog.Logger) *Recommender {
	return &Recommender{completer: c, logger: logger}
}

// calm reports whether every dimension is benign. The short-circuit avoids a
// completion call on quiet cycles and its condition is contractual.
func calm(rep risk.Report) bool {
	return rep.PrimaryLevel == risk.LevelLow &&
		rep.HeatRisk == risk.LevelLow &&
		rep.AirQuality.Index <= 2
}

// Recommend returns 3-5 actionable recommendations for residents, or the
// fixed calm-conditions string when nothing warrants action.
func (r *Recommender) Recommend(ctx context.Context, rep risk.Report, forecast []weather.DailySummary) string {
	if calm(rep) {
		return CalmRecommendation
	}

	var days strings.Builder
	for _, d := range forecast {
		fmt.Fprintf(&days, "- %s: %.0f to %.0f C, precipitation chance %.0f%%\n",
			d.Date.Format("Mon Jan 2"), d.TempMinC, d.TempMaxC, d.MaxPrecipProb*100)
	}

	heatIndex := "unavailable"
	if rep.HeatIndexC != nil {
		heatIndex = fmt.Sprintf("%.1f C", *rep.HeatIndexC)
	}

	prompt := fmt.Sprintf(`You are an expert community safety advisor.
Overall severity: %s
Reason: %s
Weather risk: %s (%s)
Heat stress: %s (heat index %s)
Air quality index: %d (%s)
CRITICAL TREND: %s
Upcoming days:
%s
Based on all this information, especially the trend, provide a short, clear,
and actionable list of 3-5 recommendations for residents.
When risks conflict, prioritize the single most severe dimension.
If the trend is worsening, be more urgent.
Use bullet points. Do not use an introduction.`,
		rep.FinalLevel, rep.FinalReasoning,
		rep.PrimaryLevel, rep.Reasoning,
		rep.HeatRisk, heatIndex,
		rep.AirQuality.Index, AQITierName(rep.AirQuality.Index),
		rep.Trend, days.String())

	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		r.logger.Warn("recommendation synthesis failed", "error", err)
		return RecommendationError
	}
	return strings.TrimSpace(text)
}
