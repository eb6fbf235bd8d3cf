package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/climatesense/climatesense/internal/fetch"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIClient queries the NewsAPI "everything" endpoint for recent
// safety-related coverage of a city.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	httpCfg fetch.HTTPClientConfig
	breaker *gobreaker.CircuitBreaker
}

func NewNewsAPIClient(apiKey string, client *http.Client) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: defaultNewsAPIBaseURL,
		httpCfg: fetch.DefaultClientConfig(client),
		breaker: fetch.NewBreaker("newsapi"),
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (c *NewsAPIClient) Fetch(ctx context.Context, city, conditionKeyword string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("news api key is not configured")
	}

	query := fmt.Sprintf(`%q AND ("weather" OR "flood" OR "storm" OR "rain" OR %q)`, city, conditionKeyword)
	from := time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")

	resp, err := fetch.Do(ctx, c.httpCfg, c.breaker, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, c.baseURL+"/everything", nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("q", query)
		q.Set("from", from)
		q.Set("sortBy", "publishedAt")
		q.Set("pageSize", "10")
		q.Set("language", "en")
		req.URL.RawQuery = q.Encode()
		req.Header.Set("X-Api-Key", c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching news for %s: %w", city, err)
	}
	defer resp.Body.Close()

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding news response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("news api returned status %q", payload.Status)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
		})
	}
	return articles, nil
}
