package weather

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/raychel/internal/provider"
)

type condition struct {
	Description string `json:"description"`
}

type mainReadings struct {
	Temp      *json.Number `json:"temp"`
	FeelsLike *json.Number `json:"feels_like"`
	Humidity  *json.Number `json:"humidity"`
}

type currentResponse struct {
	Weather []condition  `json:"weather"`
	Main    mainReadings `json:"main"`
	Wind    struct {
		Speed *json.Number `json:"speed"`
	} `json:"wind"`
}

type forecastSlot struct {
	DtTxt   string       `json:"dt_txt"`
	Weather []condition  `json:"weather"`
	Main    mainReadings `json:"main"`
}

type forecastResponse struct {
	List []forecastSlot `json:"list"`
}

func formatCurrent(city string, r *currentResponse) (string, error) {
	m := r.Main
	if len(r.Weather) == 0 || m.Temp == nil || m.FeelsLike == nil || m.Humidity == nil || r.Wind.Speed == nil {
		return "", fmt.Errorf("%w: current conditions incomplete", provider.ErrDecode)
	}

	return fmt.Sprintf("In %s, it's currently %s, %s°C (feels like %s°C), humidity %s%%, wind %s m/s.",
		city, capitalize(r.Weather[0].Description), m.Temp, m.FeelsLike, m.Humidity, r.Wind.Speed), nil
}

func formatForecast(city string, r *forecastResponse, entries int) (string, error) {
	slots := r.List
	if len(slots) > entries {
		slots = slots[:entries]
	}
	if len(slots) == 0 {
		return "", errNoEntries
	}

	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		if len(s.Weather) == 0 || s.Main.Temp == nil {
			return "", fmt.Errorf("%w: forecast slot %q incomplete", provider.ErrDecode, s.DtTxt)
		}
		lines = append(lines, fmt.Sprintf("%s: %s, %s°C", s.DtTxt, capitalize(s.Weather[0].Description), s.Main.Temp))
	}

	return fmt.Sprintf("Forecast for %s:\n%s", city, strings.Join(lines, "\n")), nil
}

// capitalize upper-cases the first character and lower-cases the rest,
// so "light RAIN" becomes "Light rain".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
