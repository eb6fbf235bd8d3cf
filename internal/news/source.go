// Package news fetches recent local-safety reporting for a monitored city.
package news

import "context"

// Article is a normalized headline from any upstream source.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Source retrieves recent articles relevant to a city and the current
// weather conditions. Implementations return at most a small page of
// results ordered by recency.
type Source interface {
	Fetch(ctx context.Context, city, conditionKeyword string) ([]Article, error)
}
