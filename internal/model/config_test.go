package model

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.HTTP.Timeout.Seconds() != 12 {
		t.Errorf("expected 12s outbound timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected ollama default provider, got %s", cfg.LLM.Provider)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "gemini" }, "llm.provider"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "http.timeout"},
		{"no workers", func(c *Config) { c.Concurrency.Workers = 0 }, "concurrency.workers"},
		{"claude alias", func(c *Config) { c.LLM.Provider = "claude" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weather.APIKey = "abcdef123456"
	cfg.Search.SerpAPIKey = "xyz"

	r := cfg.Redacted()
	if r.Weather.APIKey != "ab****56" {
		t.Errorf("unexpected masked weather key: %s", r.Weather.APIKey)
	}
	if r.Search.SerpAPIKey != "****" {
		t.Errorf("unexpected masked serpapi key: %s", r.Search.SerpAPIKey)
	}
	if cfg.Weather.APIKey != "abcdef123456" {
		t.Error("redaction must not modify the original config")
	}

	r.Search.Engines[0] = "changed"
	if cfg.Search.Engines[0] != "google" {
		t.Error("redacted copy must not share the engines slice")
	}
}
