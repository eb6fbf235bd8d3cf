package risk

import (
	"context"
	"fmt"
	"strings"
)

// GenericFinalReasoning is the fallback reasoning used when no narrative
// confirmation is available.
const GenericFinalReasoning = "Severity resolved from the combined weather, heat and air-quality scores."

// Completer is the narrative-synthesis dependency of the resolver. A nil
// Completer skips the confirmation call entirely.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResolveFinal combines the primary, heat and air-quality dimensions into one
// overriding severity. The numeric max-of-scores floor is authoritative: the
// narrative confirmation may raise the result or contribute reasoning text,
// but it can never lower the severity below the floor.
func ResolveFinal(ctx context.Context, c Completer, primary, heat Level, aqiIndex int) (Level, string) {
	floor := LevelFromScore(maxScore(primary, heat, aqiIndex))

	if c == nil {
		return floor, GenericFinalReasoning
	}

	prompt := fmt.Sprintf(`You are a safety severity resolver.
Signals for the current cycle:
- Weather risk: %s
- Heat stress risk: %s
- Air quality index (1=Good .. 5=Very Poor): %d
The combined severity has been computed as %s.
Confirm or restate this conclusion with one sentence of reasoning.
Answer in the exact format "LEVEL: reasoning" where LEVEL is one of LOW, MODERATE, HIGH, CRITICAL.`,
		primary, heat, aqiIndex, floor)

	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return floor, GenericFinalReasoning
	}

	level, reasoning := parseLeveledResponse(text)
	// Narrative labels are advisory. Accept an upgrade, never a downgrade,
	// and ignore an unparseable label entirely.
	if level != "" && level.Score() > floor.Score() {
		return level, reasoning
	}
	return floor, reasoning
}

// maxScore returns the highest severity score among the three dimensions.
// The air-quality index acts as its own 1-5 score; 0 (unavailable) counts as 1.
func maxScore(primary, heat Level, aqiIndex int) int {
	score := primary.Score()
	if s := heat.Score(); s > score {
		score = s
	}
	aqi := aqiIndex
	if aqi < 1 {
		aqi = 1
	}
	if aqi > 5 {
		aqi = 5
	}
	if aqi > score {
		score = aqi
	}
	return score
}

// parseLeveledResponse extracts a best-effort "LEVEL: reasoning" pair from a
// narrative response. The level is empty when no known label is present.
func parseLeveledResponse(text string) (Level, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", GenericFinalReasoning
	}

	label, rest, ok := strings.Cut(text, ":")
	if !ok {
		return "", text
	}

	level := Level(strings.ToUpper(strings.TrimSpace(label)))
	switch level {
	case LevelLow, LevelModerate, LevelHigh, LevelCritical, LevelExtreme:
		reasoning := strings.TrimSpace(rest)
		if reasoning == "" {
			reasoning = text
		}
		return level, reasoning
	}
	return "", text
}
