package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/raychel/internal/provider"
)

// SerpAPIName identifies SerpAPI in errors and metrics
const SerpAPIName = "serpapi"

// SerpAPI queries web search engines through serpapi.com
type SerpAPI struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engines    []string
}

// NewSerpAPI creates a SerpAPI client that tries engines in order
func NewSerpAPI(client *http.Client, baseURL, apiKey string, engines []string) *SerpAPI {
	if baseURL == "" {
		baseURL = "https://serpapi.com/search"
	}
	if len(engines) == 0 {
		engines = []string{"google", "bing"}
	}
	return &SerpAPI{
		httpClient: client,
		baseURL:    baseURL,
		apiKey:     apiKey,
		engines:    engines,
	}
}

// Hit is what one engine contributed: the grounding text and the top result link
type Hit struct {
	Engine string
	Text   string
	Link   string
}

// Search returns the first engine's non-empty extraction. When every engine
// comes back empty the error is the last failure seen, or nil if they all
// answered without usable content.
func (s *SerpAPI) Search(ctx context.Context, query string) (Hit, error) {
	if s.apiKey == "" {
		return Hit{}, provider.Fail(SerpAPIName, "search", provider.ReasonBadCredential, "", errors.New("no SerpAPI key configured"))
	}

	var lastErr error
	for _, engine := range s.engines {
		resp, err := s.query(ctx, engine, query)
		if err != nil {
			lastErr = provider.Wrap(SerpAPIName, engine, "", err)
			continue
		}
		if text := extractText(resp); text != "" {
			return Hit{Engine: engine, Text: text, Link: topLink(resp)}, nil
		}
	}
	return Hit{}, lastErr
}

func (s *SerpAPI) query(ctx context.Context, engine, query string) (*serpResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("api_key", s.apiKey)
	q.Set("engine", engine)
	q.Set("hl", "en")
	q.Set("gl", "us")
	q.Set("num", "10")

	var resp serpResponse
	if err := provider.GetJSON(ctx, s.httpClient, s.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" && extractText(&resp) == "" {
		return nil, fmt.Errorf("serpapi %s: %s", engine, resp.Error)
	}
	return &resp, nil
}
