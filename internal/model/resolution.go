package model

import "time"

// Category is a topical label for a question. It is display-only and never
// influences which tool answers the question.
type Category string

const (
	CategoryWeather          Category = "Weather"
	CategorySports           Category = "Sports"
	CategoryPolitics         Category = "Politics"
	CategoryGeneralKnowledge Category = "General Knowledge"
	CategoryOther            Category = "Other"
)

// Tool records which resolution strategy produced an answer
type Tool string

const (
	ToolWeather Tool = "Weather" // Current conditions or forecast lookup
	ToolSearch  Tool = "Search"  // Web search summarized by the model
	ToolLLM     Tool = "LLM"     // Direct knowledge-model answer
)

// WeatherIntent is the yes/no forecast question a user is asking, if any
type WeatherIntent string

const (
	IntentNone   WeatherIntent = ""
	IntentRain   WeatherIntent = "rain"
	IntentSunny  WeatherIntent = "sunny"
	IntentCloudy WeatherIntent = "cloudy"
	IntentWindy  WeatherIntent = "windy"
	IntentSnow   WeatherIntent = "snow"
)

// Resolution is the outcome of resolving one question.
// Answer, Category and Tool are what callers display; the remaining fields
// describe how the router got there.
type Resolution struct {
	ID       string        `json:"id" yaml:"id"`
	Question string        `json:"question" yaml:"question"`
	Answer   string        `json:"answer" yaml:"answer"`
	Category Category      `json:"category" yaml:"category"`
	Tool     Tool          `json:"tool" yaml:"tool"`
	Rule     string        `json:"rule" yaml:"rule"`                         // Name of the routing rule that fired
	Intent   WeatherIntent `json:"intent,omitempty" yaml:"intent,omitempty"` // Detected forecast intent
	City     string        `json:"city,omitempty" yaml:"city,omitempty"`     // Extracted city
	Query    string        `json:"query,omitempty" yaml:"query,omitempty"`   // Normalized search query
	Elapsed  time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}
