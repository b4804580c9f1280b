package model

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the complete raychel configuration
type Config struct {
	LLM          LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Weather      WeatherConfig     `mapstructure:"weather" yaml:"weather"`
	Search       SearchConfig      `mapstructure:"search" yaml:"search"`
	HTTP         HTTPConfig        `mapstructure:"http" yaml:"http"`
	Cache        CacheConfig       `mapstructure:"cache" yaml:"cache"`
	RateLimiting RateLimitConfig   `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Concurrency  ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Log          LogConfig         `mapstructure:"log" yaml:"log"`
	Server       ServerConfig      `mapstructure:"server" yaml:"server"`
}

// LLMConfig configures the knowledge model
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"` // ollama, openai, anthropic
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout     int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// WeatherConfig configures the OpenWeatherMap client
type WeatherConfig struct {
	APIKey          string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL         string `mapstructure:"base_url" yaml:"base_url"`
	Units           string `mapstructure:"units" yaml:"units"`
	ForecastEntries int    `mapstructure:"forecast_entries" yaml:"forecast_entries"`
}

// SearchConfig configures web search
type SearchConfig struct {
	SerpAPIKey   string   `mapstructure:"serpapi_key" yaml:"serpapi_key,omitempty"`
	SerpAPIURL   string   `mapstructure:"serpapi_url" yaml:"serpapi_url"`
	Engines      []string `mapstructure:"engines" yaml:"engines"`
	WikipediaURL string   `mapstructure:"wikipedia_url" yaml:"wikipedia_url"`
	FetchPages   bool     `mapstructure:"fetch_pages" yaml:"fetch_pages"`
	MaxPageBytes int64    `mapstructure:"max_page_bytes" yaml:"max_page_bytes"`
	MaxPageChars int      `mapstructure:"max_page_chars" yaml:"max_page_chars"`
}

// HTTPConfig configures outbound HTTP calls
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	HTTPProxy  string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy    string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// CacheConfig configures provider response caching
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	Backend       string        `mapstructure:"backend" yaml:"backend"` // memory, disk, layered, redis
	MemoryTTL     time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskDir       string        `mapstructure:"disk_dir" yaml:"disk_dir"`
	DiskTTL       time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
	WeatherTTL    time.Duration `mapstructure:"weather_ttl" yaml:"weather_ttl"`
	SearchTTL     time.Duration `mapstructure:"search_ttl" yaml:"search_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password,omitempty"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
}

// RateLimitConfig configures per-host outbound throttling
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst" yaml:"burst"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console, json
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "mistral-openorca",
			Timeout:     60,
			MaxTokens:   512,
			Temperature: 0.2,
		},
		Weather: WeatherConfig{
			BaseURL:         "https://api.openweathermap.org/data/2.5",
			Units:           "metric",
			ForecastEntries: 5,
		},
		Search: SearchConfig{
			SerpAPIURL:   "https://serpapi.com/search",
			Engines:      []string{"google", "bing"},
			WikipediaURL: "https://en.wikipedia.org",
			MaxPageBytes: 1_000_000,
			MaxPageChars: 1500,
		},
		HTTP: HTTPConfig{
			Timeout:   12 * time.Second,
			UserAgent: "Raychel/0.1 (+https://github.com/ppiankov/raychel)",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    "memory",
			MemoryTTL:  10 * time.Minute,
			DiskDir:    ".raychel-cache",
			DiskTTL:    24 * time.Hour,
			WeatherTTL: 10 * time.Minute,
			SearchTTL:  time.Hour,
			RedisAddr:  "localhost:6379",
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate checks values that would otherwise fail late and obscurely
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "ollama", "openai", "anthropic", "claude":
	default:
		return fmt.Errorf("unknown llm.provider %q (supported: ollama, openai, anthropic)", c.LLM.Provider)
	}

	switch c.Cache.Backend {
	case "memory", "disk", "layered", "redis":
	default:
		return fmt.Errorf("unknown cache.backend %q (supported: memory, disk, layered, redis)", c.Cache.Backend)
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", c.HTTP.Timeout)
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}

	return nil
}

// Redacted returns a copy with secrets masked, for display
func (c *Config) Redacted() Config {
	r := *c
	r.LLM.APIKey = mask(r.LLM.APIKey)
	r.Weather.APIKey = mask(r.Weather.APIKey)
	r.Search.SerpAPIKey = mask(r.Search.SerpAPIKey)
	r.Cache.RedisPassword = mask(r.Cache.RedisPassword)
	r.Server.APIKey = mask(r.Server.APIKey)
	r.Search.Engines = append([]string(nil), r.Search.Engines...)
	return r
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
