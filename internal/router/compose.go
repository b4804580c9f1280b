package router

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/raychel/internal/model"
)

// weatherKeywords is broader than the intent families: any of these routes
// a question to a weather lookup even without a forecast intent.
var weatherKeywords = words(
	"weather", "temperature", "temperatures", "humidity", "rain", "rains", "raining", "rainy", "rainfall",
	"wind", "winds", "windy", "forecast", "forecasts", "forecasted", "forecasting", "sunny",
	"cloudy", "clouds", "storm", "storms", "stormy", "storming", "thunderstorm", "thunderstorms",
	"snow", "snowing", "snowy", "snowfall", "snowstorm", "snowstorms", "precipitation", "climate",
)

var forecastWord = words("forecast", "forecasts", "forecasted")

// IsWeatherRelated reports whether a question mentions weather at all
func IsWeatherRelated(question string) bool {
	return weatherKeywords.Match(question)
}

// intentOutcome holds the yes/no sentences for one intent. Each template
// receives the city.
type intentOutcome struct {
	Signals []string
	Yes     string
	No      string
}

var intentOutcomes = map[model.WeatherIntent]intentOutcome{
	model.IntentRain: {
		Signals: []string{"rain", "showers", "drizzle", "thunder"},
		Yes:     "Yes, rain is expected today in %s.",
		No:      "No, rain is not expected today in %s.",
	},
	model.IntentSunny: {
		Signals: []string{"sunny", "clear"},
		Yes:     "Yes, it will be sunny today in %s.",
		No:      "No, it will not be sunny today in %s.",
	},
	model.IntentCloudy: {
		Signals: []string{"cloudy", "overcast", "clouds"},
		Yes:     "Yes, it will be cloudy today in %s.",
		No:      "No, it will not be cloudy today in %s.",
	},
	model.IntentWindy: {
		Signals: []string{"windy", "strong winds", "gusty"},
		Yes:     "Yes, it will be windy today in %s.",
		No:      "No, it will not be windy today in %s.",
	},
	model.IntentSnow: {
		Signals: []string{"snow", "blizzard"},
		Yes:     "Yes, snow is expected today in %s.",
		No:      "No, snow is not expected today in %s.",
	},
}

// ComposeForecastAnswer prefixes the forecast with a yes/no sentence for the
// intent. Signals are matched as substrings of the lower-cased forecast, so
// "light rain" and "Rain" both count. An unknown intent returns the forecast
// unchanged. It is only called with a forecast in hand: when the forecast
// lookup fails, the resolver answers with the provider's message alone and
// no yes/no sentence.
func ComposeForecastAnswer(city string, intent model.WeatherIntent, forecast string) string {
	outcome, ok := intentOutcomes[intent]
	if !ok {
		return forecast
	}

	lower := strings.ToLower(forecast)
	sentence := fmt.Sprintf(outcome.No, city)
	for _, s := range outcome.Signals {
		if strings.Contains(lower, s) {
			sentence = fmt.Sprintf(outcome.Yes, city)
			break
		}
	}
	return sentence + " " + forecast
}

const answerMarker = "Answer:"

const directPrompt = `You are a factual assistant. Answer from your own knowledge only and say you don't know when you are unsure.
Reply with one short sentence that states the core fact. Leave out background, history and explanations unless they are asked for.
If the question asks for code, give the complete code.
Question: %s
Answer:`

const composePrompt = `You are a factual assistant.
Web search info:
%s
Question: %s
Write a detailed answer of several sentences that uses every relevant detail from the web search info.
For sports include scores, venues, players and awards. For history and current events cover the key facts, dates, people and consequences. For science and technology cover the main concepts and their uses.
Write only the answer, without a preface or a list of sources.
Answer:`

// DirectPrompt builds the knowledge-model prompt for a question answered
// without grounding.
func DirectPrompt(question string) string {
	return fmt.Sprintf(directPrompt, strings.TrimSpace(question))
}

// ComposePrompt builds the knowledge-model prompt that summarizes search
// results into an answer.
func ComposePrompt(question, results string) string {
	return fmt.Sprintf(composePrompt, strings.TrimSpace(results), strings.TrimSpace(question))
}

// afterAnswerMarker returns the text following the last "Answer:" marker, or
// the whole text when there is none, trimmed.
func afterAnswerMarker(text string) string {
	if i := strings.LastIndex(text, answerMarker); i >= 0 {
		text = text[i+len(answerMarker):]
	}
	return strings.TrimSpace(text)
}

var answerPreamble = regexp.MustCompile(`(?i)^(the answer is|it is|it's)\s+`)

// firstSentence cuts text after the first '.', '!' or '?' that is followed
// by whitespace.
func firstSentence(text string) string {
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if isSpace(text[i+1]) {
				return text[:i+1]
			}
		}
	}
	return text
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// PostprocessConcise shapes raw model output into a single short sentence.
// It returns "" when nothing usable remains.
func PostprocessConcise(raw string) string {
	text := firstSentence(afterAnswerMarker(raw))
	text = answerPreamble.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.Join(strings.Fields(text), " ")
}

// PostprocessComposed strips everything up to the last answer marker from
// a grounded summary. It returns "" when nothing usable remains.
func PostprocessComposed(raw string) string {
	return afterAnswerMarker(raw)
}
