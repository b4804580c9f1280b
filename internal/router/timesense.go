package router

import "regexp"

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// recencyKeywords mark questions about results, outcomes and office holders.
// Their answers change over time, so a static model is not trusted with them.
var recencyKeywords = words(
	"who won", "winner", "winners", "final", "finals", "score", "scores", "beat", "defeat", "defeated",
	"trophy", "title", "champion", "champions", "championship", "match", "fixture", "result", "results",
	"ipl", "fifa", "world cup", "uefa", "olympics", "nba", "nfl", "mlb", "nhl", "grand slam",
	"nobel", "oscar", "oscars", "academy awards", "emmys", "grammys", "ballon d'or", "golden globes",
	"president", "prime minister", "chief minister", "current", "currently", "mla", "mp",
	"member of parliament", "election", "elections", "vote", "polls",
)

// IsTimeSensitive reports whether a question depends on recent real-world events
func IsTimeSensitive(question string) bool {
	if yearPattern.MatchString(question) {
		return true
	}
	return recencyKeywords.Match(question)
}
