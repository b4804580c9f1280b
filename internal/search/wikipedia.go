package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/raychel/internal/provider"
)

// WikipediaName identifies Wikipedia in errors and metrics
const WikipediaName = "wikipedia"

// Wikipedia answers from the lead of the best-matching article, using the
// keyless REST API.
type Wikipedia struct {
	httpClient *http.Client
	baseURL    string
}

// NewWikipedia creates a client for the wiki at baseURL (e.g. https://en.wikipedia.org)
func NewWikipedia(client *http.Client, baseURL string) *Wikipedia {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	return &Wikipedia{httpClient: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type wikiSearchResponse struct {
	Pages []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	} `json:"pages"`
}

type wikiSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
}

// Search finds the most relevant page for query and returns its summary
// as "Title - description. extract". It returns "" without error when no
// page matches.
func (w *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")

	var found wikiSearchResponse
	if err := provider.GetJSON(ctx, w.httpClient, w.baseURL+"/w/rest.php/v1/search/page?"+q.Encode(), &found); err != nil {
		return "", provider.Wrap(WikipediaName, "search", "", err)
	}
	if len(found.Pages) == 0 || found.Pages[0].Key == "" {
		return "", nil
	}

	var summary wikiSummary
	summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", w.baseURL, url.PathEscape(found.Pages[0].Key))
	if err := provider.GetJSON(ctx, w.httpClient, summaryURL, &summary); err != nil {
		return "", provider.Wrap(WikipediaName, "summary", "", err)
	}

	title := strings.TrimSpace(summary.Title)
	desc := strings.TrimSpace(summary.Description)
	extract := strings.TrimSpace(summary.Extract)
	if title != "" && desc != "" {
		return strings.TrimSpace(fmt.Sprintf("%s - %s. %s", title, desc, extract)), nil
	}
	return extract, nil
}
