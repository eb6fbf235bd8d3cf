package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NewsAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewNewsAPIClient("test-key", server.Client())
	c.baseURL = server.URL
	c.httpCfg.Backoff.MaxRetries = 0
	return c
}

func TestFetchBuildsQuery(t *testing.T) {
	var gotQuery, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "Flood watch issued", "description": "Rivers rising", "source": {"name": "The Hindu"}}
			]
		}`))
	})

	articles, err := c.Fetch(context.Background(), "Kochi", "monsoon")
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Flood watch issued", articles[0].Title)
	assert.Equal(t, "The Hindu", articles[0].Source)

	assert.Contains(t, gotQuery, `"Kochi"`)
	assert.Contains(t, gotQuery, `"monsoon"`)
	assert.Contains(t, gotQuery, `"flood"`)
	assert.Equal(t, "test-key", gotKey)
}

func TestFetchRequiresAPIKey(t *testing.T) {
	c := NewNewsAPIClient("", http.DefaultClient)
	_, err := c.Fetch(context.Background(), "Kochi", "rain")
	require.Error(t, err)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "articles": []}`))
	})

	_, err := c.Fetch(context.Background(), "Kochi", "rain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error")
}
