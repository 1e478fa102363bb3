package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
)

func TestFormatWindMPH(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  Value
	}{
		{name: "int knots", input: 20, want: 23},
		{name: "float knots", input: 10.0, want: 11},
		{name: "string knots", input: "10", want: 11},
		{name: "zero", input: 0, want: 0},
		{name: "empty string is calm gap", input: "", want: nil},
		{name: "unparsable string", input: "breezy", want: nil},
		{name: "nil", input: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWindMPH(tt.input))
		})
	}
}

func TestFormatSymbolName(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  Value
	}{
		{name: "full link", input: "http://forecast.weather.gov/images/wtf/nshr80.jpg", want: "nshr80.jpg"},
		{name: "trailing slash", input: "http://example.com/images/", want: nil},
		{name: "no separator", input: "sn.jpg", want: nil},
		{name: "not a string", input: 42, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSymbolName(tt.input))
		})
	}
}

func TestFormatWeatherPhrase(t *testing.T) {
	encode := func(coverage, intensity, weatherType string) string {
		return dwml.Conditions{
			Coverage:    coverage,
			Intensity:   intensity,
			WeatherType: weatherType,
			Qualifier:   "none",
		}.Encode()
	}

	tests := []struct {
		name  string
		input Value
		want  Value
	}{
		{name: "chance", input: encode("chance", "light", "rain"), want: "chance of light rain"},
		{name: "slight chance", input: encode("slight chance", "very light", "snow"), want: "slight chance of very light snow"},
		{name: "likely", input: encode("likely", "moderate", "rain"), want: "moderate rain likely"},
		{name: "definitely", input: encode("definitely", "heavy", "thunderstorms"), want: "heavy thunderstorms"},
		{name: "other coverage", input: encode("isolated", "light", "rain showers"), want: "isolated light rain showers"},
		{name: "none intensity leaves empty segment", input: encode("likely", "none", "snow"), want: " snow likely"},
		{name: "malformed degrades to empty", input: "gibberish", want: ""},
		{name: "empty value", input: "", want: ""},
		{name: "not a string", input: 7, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWeatherPhrase(tt.input))
		})
	}
}
