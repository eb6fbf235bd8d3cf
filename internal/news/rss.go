package news

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"
)

const googleNewsRSSBase = "https://news.google.com/rss/search"

// RSSSource reads the Google News search feed. It needs no API key and
// serves as the fallback when no NewsAPI key is configured.
type RSSSource struct {
	parser  *gofeed.Parser
	baseURL string
}

func NewRSSSource() *RSSSource {
	return &RSSSource{parser: gofeed.NewParser(), baseURL: googleNewsRSSBase}
}

func (s *RSSSource) Fetch(ctx context.Context, city, conditionKeyword string) ([]Article, error) {
	query := fmt.Sprintf("%s weather %s", city, conditionKeyword)
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-IN&gl=IN&ceid=IN:en", s.baseURL, url.QueryEscape(query))

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing news feed for %s: %w", city, err)
	}

	limit := len(feed.Items)
	if limit > 10 {
		limit = 10
	}
	articles := make([]Article, 0, limit)
	for _, item := range feed.Items[:limit] {
		source := "Google News"
		if item.Custom != nil && item.Custom["source"] != "" {
			source = item.Custom["source"]
		}
		articles = append(articles, Article{
			Title:       item.Title,
			Description: item.Description,
			Source:      source,
		})
	}
	return articles, nil
}
