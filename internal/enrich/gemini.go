package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/climatesense/climatesense/internal/fetch"
)

// GeminiClient implements TextCompleter against the Gemini REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpCfg fetch.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewGeminiClient creates a completion client. An empty apiKey produces a
// client whose calls fail fast without touching the network, which lets the
// pipeline degrade to its sentinel outputs.
func NewGeminiClient(client *http.Client, apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com",
		httpCfg: fetch.DefaultClientConfig(client),
		circuit: fetch.NewBreaker("gemini"),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends a single-turn generation request and returns the response
// text. There is no streaming and no conversation state across calls.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	resp, err := fetch.Do(ctx, c.httpCfg, c.circuit, func() (*http.Request, error) {
		u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
		req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Candidates) == 0 {
		return "", fmt.Errorf("completion response has no candidates")
	}

	var sb strings.Builder
	for _, part := range payload.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("completion response is empty")
	}
	return text, nil
}
