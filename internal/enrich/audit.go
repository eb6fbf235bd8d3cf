package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/climatesense/climatesense/internal/weather"
)

// ConsistencyAuditor cross-checks independently fetched signals for
// contradictions, for example a clear-sky description alongside hazardous
// particulate levels.
type ConsistencyAuditor struct {
	completer TextCompleter
	logger    *slog.Logger
}

func NewConsistencyAuditor(c TextCompleter, logger *slog.Logger) *ConsistencyAuditor {
	return &ConsistencyAuditor{completer: c, logger: logger}
}

// Audit returns a short note flagging any cross-signal contradiction, or the
// ConsistencyOK sentinel when the data agrees.
func (a *ConsistencyAuditor) Audit(ctx context.Context, snap weather.Snapshot, aqiIndex int) string {
	prompt := fmt.Sprintf(`You are a data quality auditor for an environmental monitoring system.
Reported weather: %q at %.1f C with humidity %.0f%% and wind %.1f m/s.
Reported air quality index: %d (%s).
Check whether these readings contradict each other in any way.
If you find a contradiction, describe it in one sentence.
If the data is plausible and consistent, respond with exactly: %s`,
		snap.Description, snap.TemperatureC, snap.HumidityPct, snap.WindSpeedMS,
		aqiIndex, AQITierName(aqiIndex), ConsistencyOK)

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("consistency audit failed", "error", err)
		return ConsistencyError
	}
	return strings.TrimSpace(text)
}
