package search

import (
	"encoding/json"
	"strings"
)

// maxParts caps how many result fragments make up the grounding text
const maxParts = 8

// serpResponse is the subset of a SerpAPI response that carries answers
type serpResponse struct {
	AnswerBox        map[string]any   `json:"answer_box"`
	KnowledgeGraph   map[string]any   `json:"knowledge_graph"`
	SportsResults    map[string]any   `json:"sports_results"`
	TopStories       []map[string]any `json:"top_stories"`
	NewsResults      []map[string]any `json:"news_results"`
	OrganicResults   []map[string]any `json:"organic_results"`
	RelatedQuestions []map[string]any `json:"related_questions"`
	Error            string           `json:"error"`
}

// fieldGroup names the fields read from one section, in order
type fieldGroup struct {
	items  func(r *serpResponse) []map[string]any
	limit  int
	fields []string
}

func one(m map[string]any) []map[string]any {
	if m == nil {
		return nil
	}
	return []map[string]any{m}
}

// extractionOrder lists the sections of a response from most to least direct
var extractionOrder = []fieldGroup{
	{func(r *serpResponse) []map[string]any { return one(r.AnswerBox) }, 1, []string{"answer", "snippet", "highlighted_snippet"}},
	{func(r *serpResponse) []map[string]any { return one(r.KnowledgeGraph) }, 1, []string{"title", "type", "description"}},
	{func(r *serpResponse) []map[string]any { return one(r.SportsResults) }, 1, []string{"game_spotlight", "title", "league", "match_summary"}},
	{func(r *serpResponse) []map[string]any { return r.TopStories }, 3, []string{"title", "snippet"}},
	{func(r *serpResponse) []map[string]any { return r.NewsResults }, 3, []string{"title", "snippet"}},
	{func(r *serpResponse) []map[string]any { return r.OrganicResults }, 3, []string{"snippet", "title"}},
	{func(r *serpResponse) []map[string]any { return r.RelatedQuestions }, 2, []string{"answer"}},
}

// extractText aggregates the answer-bearing fields of r into one paragraph.
// Fragments are de-duplicated in order and at most maxParts are kept.
func extractText(r *serpResponse) string {
	var parts []string
	seen := make(map[string]bool)

	for _, group := range extractionOrder {
		items := group.items(r)
		if len(items) > group.limit {
			items = items[:group.limit]
		}
		for _, item := range items {
			for _, field := range group.fields {
				text := StripTags(stringify(item[field]))
				if text == "" || seen[text] {
					continue
				}
				seen[text] = true
				parts = append(parts, text)
			}
		}
	}

	if len(parts) > maxParts {
		parts = parts[:maxParts]
	}
	return strings.Join(parts, " ")
}

// topLink returns the URL of the first organic result
func topLink(r *serpResponse) string {
	for _, item := range r.OrganicResults {
		if link, ok := item["link"].(string); ok && link != "" {
			return link
		}
	}
	return ""
}

// stringify renders scalar values and lists of strings; objects yield ""
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return strings.Join(out, " ")
	default:
		return ""
	}
}
