package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/store"
)

// TrendWindow is the number of recent records inspected for trend analysis.
const TrendWindow = 5

// TrendAnalyzer produces a qualitative trajectory statement from a bounded
// window of historical records for the same location.
type TrendAnalyzer struct {
	completer TextCompleter
	logger    *slog.Logger
}

func NewTrendAnalyzer(c TextCompleter, logger *slog.Logger) *TrendAnalyzer {
	return &TrendAnalyzer{completer: c, logger: logger}
}

// Analyze requires at least two historical records for the city; with fewer
// it returns the fixed insufficient-history sentinel without a completion
// call. history must already be filtered to the city, oldest first.
func (t *TrendAnalyzer) Analyze(ctx context.Context, city string, history []store.Record, currentLevel risk.Level, currentAQI int) string {
	if len(history) < 2 {
		return TrendUnavailable
	}

	var digest strings.Builder
	for _, rec := range history {
		fmt.Fprintf(&digest, "- At %s: final level was %s, air quality index %d.\n",
			rec.Timestamp.Format(time.RFC3339), rec.Report.FinalLevel, rec.Report.AirQuality.Index)
	}

	prompt := fmt.Sprintf(`You are a meteorologist analyzing risk trends for %s.
Here is the recent history (oldest to newest):
%s
Here is the NEWEST reading (not yet recorded):
- Final level is %s, air quality index %d.

Analyze this pattern and provide a single-sentence trend analysis.
(e.g., "Conditions are rapidly worsening," "The storm appears to be passing," "Risk remains high but stable.")`,
		city, digest.String(), currentLevel, currentAQI)

	text, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		t.logger.Warn("trend analysis failed", "city", city, "error", err)
		return TrendError
	}
	return strings.TrimSpace(text)
}
