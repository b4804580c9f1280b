package cli

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/cache"
	"github.com/ppiankov/raychel/internal/llm"
	"github.com/ppiankov/raychel/internal/logging"
	"github.com/ppiankov/raychel/internal/metrics"
	"github.com/ppiankov/raychel/internal/model"
	"github.com/ppiankov/raychel/internal/provider"
	"github.com/ppiankov/raychel/internal/router"
	"github.com/ppiankov/raychel/internal/search"
	"github.com/ppiankov/raychel/internal/util"
	"github.com/ppiankov/raychel/internal/weather"
	"github.com/ppiankov/raychel/internal/worker"
)

const robotsTTL = time.Hour

// app holds the wired collaborators one command needs
type app struct {
	cfg       *model.Config
	logger    *zap.Logger
	store     cache.Cache
	generator *llm.Generator
	resolver  *router.Resolver
}

// newApp loads the configuration and wires every collaborator
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}

func buildApp(cfg *model.Config) (*app, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	// API calls share one per-host token bucket; page reads wait on it
	// themselves so they can add robots.txt crawl delays
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	plain := util.NewHTTPClient(cfg.HTTP)
	limited := util.NewHTTPClient(cfg.HTTP)
	limited.Transport = limiter.Transport(limited.Transport)

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	wx := weather.New(cfg.Weather,
		weather.WithHTTPClient(limited),
		weather.WithCache(store, cfg.Cache.WeatherTTL),
		weather.WithLogger(logger),
	)

	searchOpts := []search.Option{
		search.WithCache(store, cfg.Cache.SearchTTL),
		search.WithLogger(logger),
		search.WithFailureHook(func(name string, err error) {
			metrics.ProviderFailure(name, string(provider.Classify(err)))
		}),
	}
	if cfg.Search.FetchPages {
		robots := util.NewRobotsChecker(plain, cfg.HTTP.UserAgent, robotsTTL)
		pages := search.NewPageReader(plain, robots, limiter, cfg.Search.MaxPageBytes, cfg.Search.MaxPageChars)
		searchOpts = append(searchOpts, search.WithPageReader(pages))
	}
	searcher := search.New(
		search.NewSerpAPI(limited, cfg.Search.SerpAPIURL, cfg.Search.SerpAPIKey, cfg.Search.Engines),
		search.NewWikipedia(limited, cfg.Search.WikipediaURL),
		searchOpts...,
	)

	gen, err := llm.NewGeneratorFromConfig(llm.ConfigFromModel(cfg.LLM, plain))
	if err != nil {
		return nil, fmt.Errorf("create knowledge model: %w", err)
	}

	logger.Debug("wired collaborators",
		zap.String("llm", gen.Name()),
		zap.String("cache", cacheBackend(cfg.Cache)),
		zap.Bool("serpapi", cfg.Search.SerpAPIKey != ""),
		zap.Bool("weather_key", cfg.Weather.APIKey != ""),
		zap.Bool("fetch_pages", cfg.Search.FetchPages),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		generator: gen,
		resolver:  router.New(wx, searcher, gen, router.WithLogger(logger)),
	}, nil
}

// Close releases the cache connection and flushes the logger
func (a *app) Close() {
	if closer, ok := a.store.(io.Closer); ok {
		_ = closer.Close()
	}
	_ = a.logger.Sync()
}

func cacheBackend(cfg model.CacheConfig) string {
	if !cfg.Enabled {
		return "disabled"
	}
	return cfg.Backend
}
