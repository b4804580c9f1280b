// Package search gathers grounding text for time-sensitive questions from
// SerpAPI (Google, then Bing) with Wikipedia as the keyless fallback.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/cache"
	"github.com/ppiankov/raychel/internal/provider"
)

// Name identifies the search chain in errors and metrics
const Name = "search"

// NotFoundMessage is the user-facing text when no source had an answer
const NotFoundMessage = "Sorry, couldn't find an answer."

// Client tries SerpAPI first and falls back to Wikipedia. Either source may
// be nil.
type Client struct {
	serp      *SerpAPI
	wiki      *Wikipedia
	pages     *PageReader
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *zap.Logger
	onFailure func(provider string, err error)
}

// Option configures a Client
type Option func(*Client)

// WithPageReader appends paragraph text from the top organic result
func WithPageReader(p *PageReader) Option {
	return func(c *Client) { c.pages = p }
}

// WithCache stores successful results in c for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithFailureHook is called for every source failure the chain recovers from
func WithFailureHook(fn func(provider string, err error)) Option {
	return func(c *Client) { c.onFailure = fn }
}

// New creates a search chain
func New(serp *SerpAPI, wiki *Wikipedia, opts ...Option) *Client {
	c := &Client{
		serp:      serp,
		wiki:      wiki,
		cache:     cache.Nop{},
		logger:    zap.NewNop(),
		onFailure: func(string, error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CleanQuery trims the spaces, quotes and angle brackets users paste around
// a query.
func CleanQuery(query string) string {
	return strings.Trim(query, " '\"<>")
}

// Search returns grounding text for query. When no source produces text it
// returns a *provider.Error with NotFoundMessage; its Reason is not-found
// unless a source failed, in which case it is that failure's reason.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	query = CleanQuery(query)
	if query == "" {
		return "", provider.Fail(Name, "search", provider.ReasonNotFound, NotFoundMessage, errors.New("empty query"))
	}

	key := cache.Key("search", query)
	if cached, ok := c.cache.Get(ctx, key); ok {
		c.logger.Debug("search cache hit", zap.String("query", query))
		return string(cached), nil
	}

	text, lastErr := c.search(ctx, query)
	if text == "" {
		reason := provider.ReasonNotFound
		if lastErr != nil {
			reason = provider.Classify(lastErr)
		}
		return "", provider.Fail(Name, "search", reason, NotFoundMessage, lastErr)
	}

	if err := c.cache.Set(ctx, key, []byte(text), c.cacheTTL); err != nil {
		c.logger.Warn("search cache write failed", zap.Error(err))
	}
	return text, nil
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	var lastErr error

	if c.serp != nil && c.serp.apiKey != "" {
		hit, err := c.serp.Search(ctx, query)
		if err != nil {
			c.failed(SerpAPIName, err)
			lastErr = err
		}
		if hit.Text != "" {
			c.logger.Debug("serpapi answered", zap.String("engine", hit.Engine), zap.String("query", query))
			return c.withPage(ctx, hit), nil
		}
	}

	if c.wiki != nil {
		text, err := c.wiki.Search(ctx, query)
		if err != nil {
			c.failed(WikipediaName, err)
			lastErr = err
		}
		if text != "" {
			c.logger.Debug("wikipedia answered", zap.String("query", query))
			return text, nil
		}
	}

	return "", lastErr
}

// withPage appends the top result's paragraph text when page reading is on.
// Page failures leave the snippet text as it is.
func (c *Client) withPage(ctx context.Context, hit Hit) string {
	if c.pages == nil || hit.Link == "" {
		return hit.Text
	}
	page, err := c.pages.Read(ctx, hit.Link)
	if err != nil {
		c.logger.Debug("page read skipped", zap.String("url", hit.Link), zap.Error(err))
		return hit.Text
	}
	if page == "" {
		return hit.Text
	}
	return hit.Text + "\n\n" + page
}

func (c *Client) failed(name string, err error) {
	c.logger.Warn("search source failed", zap.String("provider", name), zap.Error(err))
	c.onFailure(name, err)
}
