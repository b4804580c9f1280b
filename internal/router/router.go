// Package router turns one natural-language question into one answer by
// picking exactly one resolution strategy: a weather lookup, a web search
// summarized by the knowledge model, or a direct knowledge-model answer.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/metrics"
	"github.com/ppiankov/raychel/internal/model"
	"github.com/ppiankov/raychel/internal/provider"
)

// Fixed answers for outcomes that never reach a provider or that a provider
// could not improve on.
const (
	AskForecastCity = "Please specify the city for the forecast."
	AskWeatherCity  = "Please specify the city for the weather."
	SearchFailed    = "Sorry, I couldn't find an answer."
	DontKnow        = "I don't know."
)

// WeatherProvider returns human-readable weather text for a city
type WeatherProvider interface {
	Current(ctx context.Context, city string) (string, error)
	Forecast(ctx context.Context, city string) (string, error)
}

// Searcher returns aggregated result text for a query
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Generator completes a prompt with the knowledge model
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Question is the analyzed form of the input shared by all rules
type Question struct {
	Text   string
	Intent model.WeatherIntent
}

// Rule is one routing decision. Rules are evaluated in order and the first
// whose Match returns true handles the question.
type Rule struct {
	Name   string
	Match  func(q *Question) bool
	Handle func(ctx context.Context, q *Question, res *model.Resolution)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver routes questions. It holds no per-question state and is safe for
// concurrent use when its collaborators are.
type Resolver struct {
	weather WeatherProvider
	search  Searcher
	gen     Generator
	logger  *zap.Logger
	rules   []Rule
}

// New builds a Resolver over the given collaborators
func New(weather WeatherProvider, search Searcher, gen Generator, opts ...Option) *Resolver {
	r := &Resolver{
		weather: weather,
		search:  search,
		gen:     gen,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.rules = []Rule{
		{Name: "weather-intent", Match: hasIntent, Handle: r.answerIntent},
		{Name: "weather", Match: weatherRelated, Handle: r.answerWeather},
		{Name: "search", Match: timeSensitive, Handle: r.answerSearch},
		{Name: "knowledge", Match: always, Handle: r.answerDirect},
	}
	return r
}

// Rules returns the routing rules in evaluation order
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Resolve answers a question. It never fails: collaborator errors become
// answer text.
func (r *Resolver) Resolve(ctx context.Context, question string) model.Resolution {
	start := time.Now()

	q := &Question{
		Text:   question,
		Intent: DetectWeatherIntent(question),
	}
	res := model.Resolution{
		ID:       uuid.NewString(),
		Question: question,
		Category: Categorize(question),
		Intent:   q.Intent,
	}

	for _, rule := range r.rules {
		if !rule.Match(q) {
			continue
		}
		res.Rule = rule.Name
		rule.Handle(ctx, q, &res)
		break
	}

	res.Elapsed = time.Since(start)
	metrics.ObserveResolution(res.Rule, string(res.Tool), string(res.Category), res.Elapsed)
	r.logger.Debug("resolved question",
		zap.String("id", res.ID),
		zap.String("rule", res.Rule),
		zap.String("category", string(res.Category)),
		zap.String("tool", string(res.Tool)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

func hasIntent(q *Question) bool      { return q.Intent != model.IntentNone }
func weatherRelated(q *Question) bool { return IsWeatherRelated(q.Text) }
func timeSensitive(q *Question) bool  { return IsTimeSensitive(q.Text) }
func always(*Question) bool           { return true }

func (r *Resolver) answerIntent(ctx context.Context, q *Question, res *model.Resolution) {
	res.Tool = model.ToolWeather

	city, ok := ExtractCity(q.Text)
	if !ok {
		res.Answer = AskForecastCity
		return
	}
	res.City = city

	forecast, err := r.weather.Forecast(ctx, city)
	if err != nil {
		r.failed(res, "forecast", err)
		res.Answer = provider.UserMessage(err, fmt.Sprintf("Sorry, couldn't find forecast for %s.", city))
		return
	}
	res.Answer = ComposeForecastAnswer(city, q.Intent, forecast)
}

func (r *Resolver) answerWeather(ctx context.Context, q *Question, res *model.Resolution) {
	res.Tool = model.ToolWeather
	wantForecast := forecastWord.Match(q.Text)

	city, ok := ExtractCity(q.Text)
	if !ok {
		if wantForecast {
			res.Answer = AskForecastCity
		} else {
			res.Answer = AskWeatherCity
		}
		return
	}
	res.City = city

	var (
		text     string
		err      error
		fallback string
	)
	if wantForecast {
		text, err = r.weather.Forecast(ctx, city)
		fallback = fmt.Sprintf("Sorry, couldn't find forecast for %s.", city)
	} else {
		text, err = r.weather.Current(ctx, city)
		fallback = fmt.Sprintf("Sorry, couldn't find weather for %s.", city)
	}
	if err != nil {
		r.failed(res, "weather", err)
		res.Answer = provider.UserMessage(err, fallback)
		return
	}
	res.Answer = text
}

func (r *Resolver) answerSearch(ctx context.Context, q *Question, res *model.Resolution) {
	res.Tool = model.ToolSearch
	res.Query = NormalizeQuery(q.Text)

	results, err := r.search.Search(ctx, res.Query)
	if err != nil {
		r.failed(res, "search", err)
		res.Answer = SearchFailed
		return
	}
	if strings.TrimSpace(results) == "" {
		res.Answer = SearchFailed
		return
	}

	raw, err := r.gen.Generate(ctx, ComposePrompt(q.Text, results))
	if err != nil {
		r.failed(res, "llm", err)
		res.Answer = SearchFailed
		return
	}
	if answer := PostprocessComposed(raw); answer != "" {
		res.Answer = answer
		return
	}
	res.Answer = SearchFailed
}

func (r *Resolver) answerDirect(ctx context.Context, q *Question, res *model.Resolution) {
	res.Tool = model.ToolLLM

	raw, err := r.gen.Generate(ctx, DirectPrompt(q.Text))
	if err != nil {
		r.failed(res, "llm", err)
		res.Answer = DontKnow
		return
	}
	if answer := PostprocessConcise(raw); answer != "" {
		res.Answer = answer
		return
	}
	res.Answer = DontKnow
}

// failed records a collaborator failure. name is used when the error does
// not identify its provider.
func (r *Resolver) failed(res *model.Resolution, name string, err error) {
	reason := provider.Classify(err)
	var perr *provider.Error
	if errors.As(err, &perr) && perr.Provider != "" {
		name = perr.Provider
	}
	metrics.ProviderFailure(name, string(reason))
	r.logger.Warn("provider call failed",
		zap.String("id", res.ID),
		zap.String("provider", name),
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
}
