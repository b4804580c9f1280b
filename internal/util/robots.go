package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a page may be read, per the site's robots.txt.
// Parsed files are kept per host for ttl.
type RobotsChecker struct {
	cache      *gocache.Cache
	httpClient *http.Client
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a checker that fetches robots.txt with client
func NewRobotsChecker(client *http.Client, userAgent string, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RobotsChecker{
		cache:      gocache.New(ttl, 2*ttl),
		httpClient: client,
		userAgent:  userAgent,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the site
// asks for. An unreachable or unparsable robots.txt allows everything.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return false, 0, fmt.Errorf("parse URL: no host in %q", rawURL)
	}

	data, err := r.robotsFor(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(path, r.agent), delay, nil
}

// IsAllowed is CanFetch without the crawl delay; errors disallow
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	allowed, _, err := r.CanFetch(ctx, rawURL)
	return err == nil && allowed
}

func (r *RobotsChecker) robotsFor(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	if cached, ok := r.cache.Get(host); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s://%s/robots.txt", scheme, host), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache.SetDefault(host, data)
	return data, nil
}

// NormalizeUserAgent reduces a User-Agent to the product token robots.txt
// groups are matched against, e.g. "Raychel/0.1 (+url)" becomes "Raychel".
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
