// Package enrich contains the narrative-synthesis stages of the pipeline.
// Every stage delegates to an external text-completion service and absorbs
// its failures into a fixed sentinel string; nothing in this package can
// abort a monitoring cycle.
package enrich

import "context"

// TextCompleter is the black-box text-completion contract: a prompt in, free
// form text out. Implementations are assumed unreliable and latency-bound.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Fixed sentinel outputs. Downstream consumers (dashboard, email composition)
// string-match some of these, so the exact wording is contractual.
const (
	AirQualityUnavailable    = "Air quality data unavailable."
	AirQualityErrorNarrative = "Error analyzing air quality."
	TrendUnavailable         = "No trend data available."
	TrendError               = "Error analyzing trend."
	CalmRecommendation       = "Conditions are calm. No special actions required."
	RecommendationError      = "Error generating recommendations."
	NewsNoneFound            = "No relevant local safety news found."
	NewsError                = "Error analyzing news."
	ConsistencyOK            = "Data appears consistent."
	ConsistencyError         = "Data consistency validation failed."
)
