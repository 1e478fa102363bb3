package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
)

// knotsToMPH converts the feed's wind speeds (knots) to miles per hour.
const knotsToMPH = 1.15077945

// FormatWindMPH converts a wind speed in knots to whole miles per hour.
// Daily recipes hand it an already-reduced number; hourly projections hand
// it the raw sample string. An empty or unparsable sample yields nil, the
// same way the feed leaves gust values blank for calm periods.
func FormatWindMPH(v Value) Value {
	switch n := v.(type) {
	case int:
		return int(float64(n) * knotsToMPH)
	case float64:
		return int(n * knotsToMPH)
	case string:
		if n == "" {
			return nil
		}
		knots, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		return int(knots * knotsToMPH)
	default:
		return nil
	}
}

// FormatSymbolName reduces a full conditions-icon link to its file name,
// e.g. "http://forecast.weather.gov/images/wtf/nshr80.jpg" → "nshr80.jpg".
// Links without a path separator yield nil.
func FormatSymbolName(v Value) Value {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	symbol := symbolFromLink(s)
	if symbol == "" {
		return nil
	}
	return symbol
}

// FormatWeatherPhrase decodes an encoded weather-conditions value into a
// human-readable phrase. Malformed values produce an empty phrase instead of
// failing the whole assembly.
func FormatWeatherPhrase(v Value) Value {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	c, err := dwml.ParseConditions(s)
	if err != nil {
		return ""
	}
	return weatherPhrase(c)
}

// weatherPhrase composes the phrase by coverage category. Intensity "none"
// becomes an empty segment, which stays in the phrase literally (" snow
// likely"), matching the feed's established output.
func weatherPhrase(c dwml.Conditions) string {
	intensity := c.Intensity
	if intensity == "none" {
		intensity = ""
	}

	switch c.Coverage {
	case "likely":
		return fmt.Sprintf("%s %s likely", intensity, c.WeatherType)
	case "chance", "slight chance":
		return fmt.Sprintf("%s of %s %s", c.Coverage, intensity, c.WeatherType)
	case "definitely":
		return fmt.Sprintf("%s %s", intensity, c.WeatherType)
	default:
		return fmt.Sprintf("%s %s %s", c.Coverage, intensity, c.WeatherType)
	}
}

func symbolFromLink(link string) string {
	idx := strings.LastIndex(link, "/")
	if idx < 0 {
		return ""
	}
	return link[idx+1:]
}
