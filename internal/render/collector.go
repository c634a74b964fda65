package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxBodyBytes caps how much of a destination response is read
const maxBodyBytes = 2 << 20

// Page holds the rendered destination HTML and its extracted body text
type Page struct {
	HTML     string `json:"html"`
	BodyText string `json:"body_text"`
}

// Collector fetches a destination URL and extracts its visible text.
// Transport errors are the transient failures the workflow retries; the
// response content itself, whatever its status, is what gets classified.
type Collector struct {
	client *http.Client
}

// NewCollector wires an HTTP client; timeout defaults to 20 seconds
func NewCollector(timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Collector{
		client: &http.Client{Timeout: timeout},
	}
}

// Collect fetches the destination and returns its HTML plus body text
func (c *Collector) Collect(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "pelican-evaluator/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch destination: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read destination body: %w", err)
	}

	html := string(raw)
	bodyText, err := extractBodyText(html)
	if err != nil {
		return nil, fmt.Errorf("extract body text: %w", err)
	}

	return &Page{HTML: html, BodyText: bodyText}, nil
}

// extractBodyText strips script, style and noscript nodes and collapses
// whitespace in the remaining visible text.
func extractBodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " "), nil
}
