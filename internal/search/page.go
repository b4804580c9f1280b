package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/ppiankov/raychel/internal/util"
	"github.com/ppiankov/raychel/internal/worker"
)

// ErrDisallowed is returned for pages robots.txt excludes
var ErrDisallowed = errors.New("disallowed by robots.txt")

// PageReader fetches a result page and extracts its paragraph text. It
// honors robots.txt, including crawl delays, and bounds what it reads.
type PageReader struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	maxBytes   int64
	maxChars   int
}

// NewPageReader creates a reader. limiter may be nil.
func NewPageReader(client *http.Client, robots *util.RobotsChecker, limiter *worker.Limiter, maxBytes int64, maxChars int) *PageReader {
	if maxBytes <= 0 {
		maxBytes = 1_000_000
	}
	if maxChars <= 0 {
		maxChars = 1500
	}
	return &PageReader{
		httpClient: client,
		robots:     robots,
		limiter:    limiter,
		maxBytes:   maxBytes,
		maxChars:   maxChars,
	}
}

// Read returns up to maxChars of paragraph text from rawURL
func (p *PageReader) Read(ctx context.Context, rawURL string) (string, error) {
	allowed, delay, err := p.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}

	if p.limiter != nil {
		if err := p.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "text/html" && mt != "application/xhtml+xml" {
			return "", fmt.Errorf("unsupported content type %q", mt)
		}
	}

	text, err := ParagraphText(io.LimitReader(resp.Body, p.maxBytes), p.maxChars)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return text, nil
}
