package router

import (
	"regexp"
	"strings"
)

const maxCityLen = 64

// cityPatterns are tried in order against the lower-cased question. The first
// one that matches supplies the candidate; later patterns are not consulted.
var cityPatterns = patterns(
	`\b(?:in|for|of)\s+([a-z\s\-.]+)`,
	`forecast(?:\s+in)?\s+([a-z\s\-.]+)`,
	`([a-z\s\-.]+)\s+weather`,
)

var (
	leadingPreposition = regexp.MustCompile(`(?i)^(?:(?:in|for|of)\s+)+`)
	temporalWords      = regexp.MustCompile(`(?i)\b(this week|today|tomorrow|tonight|now|next week|week)\b`)
	nonCityChars       = regexp.MustCompile(`[^a-zA-Z\s\-.]`)
)

// ExtractCity pulls a city name out of a weather question. ok is false when
// nothing usable is found, which callers answer with a clarification.
func ExtractCity(question string) (city string, ok bool) {
	lower := strings.ToLower(question)
	for _, re := range cityPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return CleanCity(m[1])
		}
	}
	return "", false
}

// CleanCity normalizes a candidate city: temporal words and leading
// prepositions are removed, punctuation is trimmed and the result is
// title-cased. Applying CleanCity to its own output returns it unchanged.
func CleanCity(candidate string) (string, bool) {
	city := nonCityChars.ReplaceAllString(candidate, "")

	// removing one word can expose another ("now-today"), so repeat until stable
	for {
		next := temporalWords.ReplaceAllString(city, "")
		next = leadingPreposition.ReplaceAllString(strings.Trim(next, " \t\n\r\f\v,.-"), "")
		if next == city {
			break
		}
		city = next
	}

	if len(city) < 1 || len(city) > maxCityLen {
		return "", false
	}
	return titleCase(city), true
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "winston-salem" becomes "Winston-Salem".
func titleCase(s string) string {
	b := []byte(s)
	prevLetter := false
	for i, c := range b {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		switch {
		case isLetter && !prevLetter && c >= 'a':
			b[i] = c - 'a' + 'A'
		case isLetter && prevLetter && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
		prevLetter = isLetter
	}
	return string(b)
}
