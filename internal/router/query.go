package router

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whoWonPattern   = regexp.MustCompile(`who\s+won\s+(the\s+)?(.+?)\s+in\s+(\d{4})`)
	iplYearPattern  = regexp.MustCompile(`\bipl\b\s*(\d{4})`)
	fifaYearPattern = regexp.MustCompile(`\bfifa\s+world\s+cup\b\s*(\d{4})`)
	anyYearPattern  = regexp.MustCompile(`\d{4}`)
	queryPunct      = regexp.MustCompile(`[^\w\s-]`)
)

// NormalizeQuery rewrites conversational result questions into the
// entity-first form search engines answer best, e.g.
// "who won the ipl in 2016?" becomes "IPL 2016 winner".
func NormalizeQuery(question string) string {
	q := strings.TrimSpace(question)
	low := strings.ToLower(q)

	if m := whoWonPattern.FindStringSubmatch(low); m != nil {
		event, year := strings.TrimSpace(m[2]), m[3]
		switch {
		case strings.Contains(event, "ipl"):
			return fmt.Sprintf("IPL %s winner", year)
		case isFIFAWorldCup(event):
			return fmt.Sprintf("FIFA World Cup %s winner", year)
		default:
			return fmt.Sprintf("%s %s winner", strings.ToUpper(event), year)
		}
	}

	if m := iplYearPattern.FindStringSubmatch(low); m != nil {
		return fmt.Sprintf("IPL %s winner", m[1])
	}
	if m := fifaYearPattern.FindStringSubmatch(low); m != nil {
		return fmt.Sprintf("FIFA World Cup %s winner", m[1])
	}

	if strings.Contains(low, "winner") && anyYearPattern.MatchString(low) {
		return queryPunct.ReplaceAllString(q, "")
	}

	return q
}

// isFIFAWorldCup accepts "world cup" on its own or qualified by "fifa";
// other qualifiers ("cricket world cup") name a different tournament.
func isFIFAWorldCup(event string) bool {
	if !strings.Contains(event, "world cup") {
		return false
	}
	return event == "world cup" || strings.Contains(event, "fifa")
}
