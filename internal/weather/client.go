// Package weather looks up current conditions and short forecasts from
// OpenWeatherMap and renders them as one-paragraph answers.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/cache"
	"github.com/ppiankov/raychel/internal/model"
	"github.com/ppiankov/raychel/internal/provider"
)

// Name identifies this provider in errors and metrics
const Name = "openweathermap"

// MissingKeyMessage is the answer when no API key is configured
const MissingKeyMessage = "Sorry, couldn't perform weather lookup (missing WEATHER_API_KEY)."

// Client talks to the OpenWeatherMap 2.5 API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	units      string
	entries    int
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithCache stores successful answers in c for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a weather client from configuration
func New(cfg model.WeatherConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 12 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		units:      cfg.Units,
		entries:    cfg.ForecastEntries,
		cache:      cache.Nop{},
		logger:     zap.NewNop(),
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.units == "" {
		c.units = "metric"
	}
	if c.entries <= 0 {
		c.entries = 5
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current describes the conditions in city right now
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	notFound := fmt.Sprintf("Sorry, couldn't find weather for %s.", city)
	return c.lookup(ctx, "current", "/weather", city, notFound, func() (string, error) {
		var resp currentResponse
		if err := c.get(ctx, "/weather", city, &resp); err != nil {
			return "", err
		}
		return formatCurrent(city, &resp)
	})
}

// Forecast lists the next few three-hour forecast slots for city
func (c *Client) Forecast(ctx context.Context, city string) (string, error) {
	notFound := fmt.Sprintf("Sorry, couldn't find forecast for %s.", city)
	return c.lookup(ctx, "forecast", "/forecast", city, notFound, func() (string, error) {
		var resp forecastResponse
		if err := c.get(ctx, "/forecast", city, &resp); err != nil {
			return "", err
		}
		return formatForecast(city, &resp, c.entries)
	})
}

// lookup wraps fetch with the key check, the cache and error typing shared
// by both operations.
func (c *Client) lookup(ctx context.Context, op, path, city, notFound string, fetch func() (string, error)) (string, error) {
	if c.apiKey == "" {
		return "", provider.Fail(Name, op, provider.ReasonBadCredential, MissingKeyMessage, nil)
	}

	key := cache.Key("weather", path, c.units, strings.ToLower(city))
	if cached, ok := c.cache.Get(ctx, key); ok {
		c.logger.Debug("weather cache hit", zap.String("op", op), zap.String("city", city))
		return string(cached), nil
	}

	text, err := fetch()
	if err != nil {
		reason := provider.Classify(err)
		if errors.Is(err, errNoEntries) {
			reason = provider.ReasonNotFound
		}
		return "", provider.Fail(Name, op, reason, notFound, err)
	}

	if err := c.cache.Set(ctx, key, []byte(text), c.cacheTTL); err != nil {
		c.logger.Warn("weather cache write failed", zap.Error(err))
	}
	return text, nil
}

func (c *Client) get(ctx context.Context, path, city string, out any) error {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	return provider.GetJSON(ctx, c.httpClient, c.baseURL+path+"?"+q.Encode(), out)
}

// errNoEntries marks a forecast response without any slots
var errNoEntries = errors.New("no forecast entries")
