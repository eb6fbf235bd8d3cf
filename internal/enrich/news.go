package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/climatesense/climatesense/internal/news"
)

// NewsAnalyzer condenses fetched headlines into a short safety-relevant
// summary.
type NewsAnalyzer struct {
	completer TextCompleter
	logger    *slog.Logger
}

func NewNewsAnalyzer(c TextCompleter, logger *slog.Logger) *NewsAnalyzer {
	return &NewsAnalyzer{completer: c, logger: logger}
}

// Summarize extracts the safety-relevant essence of the given articles.
// Only the first five articles are considered.
func (n *NewsAnalyzer) Summarize(ctx context.Context, city string, articles []news.Article) string {
	if len(articles) == 0 {
		return NewsNoneFound
	}

	limit := len(articles)
	if limit > 5 {
		limit = 5
	}
	var digest strings.Builder
	for i, a := range articles[:limit] {
		fmt.Fprintf(&digest, "ARTICLE %d: %s (%s)\n%s\n\n", i+1, a.Title, a.Source, a.Description)
	}

	prompt := fmt.Sprintf(`You are a local news analyst for %s.
Review the following recent articles and extract only information relevant to
public safety, severe weather, flooding, or environmental hazards.
Summarize each relevant article in one line as "[Headline]: summary".
Ignore articles with no safety relevance.
If none of the articles are relevant, respond with exactly: %s

%s`, city, NewsNoneFound, digest.String())

	text, err := n.completer.Complete(ctx, prompt)
	if err != nil {
		n.logger.Warn("news analysis failed", "city", city, "error", err)
		return NewsError
	}
	return strings.TrimSpace(text)
}
