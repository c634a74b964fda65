package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pelican/internal/config"
	"pelican/internal/model"
)

const systemPrompt = `You review the visible text of a web page that a short link redirects to.
Decide whether the destination is healthy. Respond with a single JSON object:
{"status": "UP" | "DOWN" | "SUSPICIOUS" | "UNKNOWN", "reason": "<one sentence>"}
UP means the page serves its expected content. DOWN means an error page,
parked domain or empty shell. SUSPICIOUS means phishing, malware or scam
content. UNKNOWN means the text is insufficient to judge.`

// maxBodyText caps how much page text is sent to the model
const maxBodyText = 12000

// Verdict is the classifier's judgement of a destination
type Verdict struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Client calls an OpenAI-compatible chat completions API to classify
// destination page text. The workflow gives this step zero retries, so any
// error here fails the whole instance.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a classifier client from configuration
func NewClient(cfg config.ClassifierConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify submits the body text and parses the model's JSON verdict
func (c *Client) Classify(ctx context.Context, bodyText string) (*Verdict, error) {
	if c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("classifier client misconfigured")
	}
	if len(bodyText) > maxBodyText {
		bodyText = bodyText[:maxBodyText]
	}

	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": bodyText},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal classify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classifier error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("classifier returned no choices")
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &verdict); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	verdict.Status = strings.ToUpper(verdict.Status)
	if !model.ValidStatus(verdict.Status) {
		return nil, fmt.Errorf("unknown verdict status %q", verdict.Status)
	}

	return &verdict, nil
}
