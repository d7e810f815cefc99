// Package fetch retrieves a short text snippet from a submission URL so the
// evaluation prompt carries page context (repository title, README text).
// Fetching is best effort: the oracle is instructed to handle unreachable
// URLs, so failures here never block an evaluation.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxBodyBytes bounds how much of the page is read.
	maxBodyBytes = 512 << 10
	// maxSnippetChars bounds the text included in the prompt.
	maxSnippetChars = 2000

	requestTimeout = 15 * time.Second
	userAgent      = "hiring-pipeline/1.0"
)

// Client fetches submission page context.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a fetch client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// SubmissionContext fetches the URL and returns the page title plus the
// leading visible text, collapsed to a bounded snippet.
func (c *Client) SubmissionContext(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid submission URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch submission page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("submission page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse submission page: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	body := collapseWhitespace(doc.Find("body").Text())
	if len(body) > maxSnippetChars {
		body = body[:maxSnippetChars]
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString("Page title: ")
		sb.WriteString(title)
		sb.WriteString("\n")
	}
	if body != "" {
		sb.WriteString(body)
	}
	return strings.TrimSpace(sb.String()), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
