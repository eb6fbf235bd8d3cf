package risk

// Level is a qualitative risk tier.
type Level string

const (
	LevelNone     Level = "NONE"
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelExtreme  Level = "EXTREME"
	LevelCritical Level = "CRITICAL"
)

// Score maps a level to its numeric severity, used only for comparison and
// max operations across heterogeneous risk dimensions.
func (l Level) Score() int {
	switch l {
	case LevelExtreme, LevelCritical:
		return 5
	case LevelHigh:
		return 4
	case LevelModerate:
		return 3
	case LevelLow:
		return 2
	default:
		return 1
	}
}

// LevelFromScore maps a 1-5 severity score back to the final-level name.
func LevelFromScore(score int) Level {
	switch {
	case score >= 5:
		return LevelCritical
	case score == 4:
		return LevelHigh
	case score == 3:
		return LevelModerate
	default:
		return LevelLow
	}
}

// AtLeast reports whether l is at least as severe as other.
func (l Level) AtLeast(other Level) bool {
	return l.Score() >= other.Score()
}
