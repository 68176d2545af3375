package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	userAgent        = "Mozilla/5.0 (compatible; yourbuzzfeed-news/1.0)"
	maxExtractedText = 8000
)

// Extractor pulls the readable body text out of an article page.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

type readabilityExtractor struct {
	client *http.Client
}

func NewReadabilityExtractor() Extractor {
	return &readabilityExtractor{client: &http.Client{Timeout: 20 * time.Second}}
}

func (e *readabilityExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if runes := []rune(text); len(runes) > maxExtractedText {
		text = string(runes[:maxExtractedText])
	}
	return text, nil
}
