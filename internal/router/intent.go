package router

import (
	"regexp"
	"strings"

	"github.com/ppiankov/raychel/internal/model"
)

// sameDayMarkers turn a bare weather word into a forecast question
var sameDayMarkers = words("today", "tomorrow", "tonight", "now")

// intentFamily describes how one forecast intent is phrased
type intentFamily struct {
	Intent   model.WeatherIntent
	Keywords keywordSet // Count only together with a same-day marker
	Phrases  []string   // Regular expressions that match on their own
}

var intentFamilies = []intentFamily{
	{
		Intent:   model.IntentRain,
		Keywords: words("rain", "raining", "rainy", "rainfall"),
		Phrases:  []string{`(gonna|going to) rain`, `will it rain`, `chance of rain`, `rain expected`, `raining today`, `precipitation`},
	},
	{
		Intent:   model.IntentSunny,
		Keywords: words("sunny"),
		Phrases:  []string{`(gonna|going to) be sunny`, `will it be sunny`, `sunny expected`, `clear skies`},
	},
	{
		Intent:   model.IntentCloudy,
		Keywords: words("cloudy", "clouds"),
		Phrases:  []string{`(gonna|going to) be cloudy`, `will it be cloudy`, `cloudy expected`, `overcast`, `\bclouds\b`},
	},
	{
		Intent:   model.IntentWindy,
		Keywords: words("windy"),
		Phrases:  []string{`(gonna|going to) be windy`, `will it be windy`, `windy expected`, `strong winds`, `gusty`, `wind speed`},
	},
	{
		Intent:   model.IntentSnow,
		Keywords: words("snow", "snowing", "snowy", "snowfall", "snowstorm"),
		Phrases:  []string{`(gonna|going to) snow`, `will it snow`, `chance of snow`, `snow expected`},
	},
}

// intentPhrases holds the compiled Phrases of intentFamilies, index for index
var intentPhrases = func() [][]*regexp.Regexp {
	out := make([][]*regexp.Regexp, len(intentFamilies))
	for i, fam := range intentFamilies {
		out[i] = patterns(fam.Phrases...)
	}
	return out
}()

// DetectWeatherIntent returns the first intent family the question matches,
// or IntentNone.
func DetectWeatherIntent(question string) model.WeatherIntent {
	lower := strings.ToLower(question)
	t := tokenize(question)
	sameDay := sameDayMarkers.matchText(t)

	for i, fam := range intentFamilies {
		if sameDay && fam.Keywords.matchText(t) {
			return fam.Intent
		}
		if anyPattern(intentPhrases[i], lower) {
			return fam.Intent
		}
	}
	return model.IntentNone
}
