package router

import "github.com/ppiankov/raychel/internal/model"

// categoryRule pairs a category with the keywords that select it
type categoryRule struct {
	Category model.Category
	Keywords keywordSet
}

// categoryRules are tested in order; the first set with a hit wins
var categoryRules = []categoryRule{
	{model.CategoryWeather, words(
		"weather", "temperature", "temperatures", "humidity", "rain", "raining", "rainy", "rainfall",
		"forecast", "forecasts", "forecasted", "climate", "wind", "winds", "windy", "sunny",
		"cloudy", "clouds", "storm", "storms", "stormy", "storming", "thunderstorm", "thunderstorms",
		"snow", "snowing", "snowy", "snowfall", "snowstorm",
	)},
	{model.CategorySports, words(
		"ipl", "cricket", "football", "soccer", "tennis", "nba", "nfl", "fifa", "world cup",
		"sports", "sport", "score", "match", "player", "tournament",
	)},
	{model.CategoryPolitics, words(
		"prime minister", "president", "presidential", "government", "election", "elections",
		"vote", "parliament", "politics", "minister", "mla", "mp", "political", "party",
	)},
	{model.CategoryGeneralKnowledge, words(
		"history", "science", "math", "who", "what", "when", "where", "why", "how",
		"what's", "who's", "where's", "population", "country", "general knowledge",
	)},
}

// Categorize assigns a display category to a question. It never influences routing.
func Categorize(question string) model.Category {
	t := tokenize(question)
	for _, rule := range categoryRules {
		if rule.Keywords.matchText(t) {
			return rule.Category
		}
	}
	return model.CategoryOther
}
