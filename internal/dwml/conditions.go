package dwml

import (
	"fmt"
	"strings"
)

// Conditions is the structured content of one weather-conditions value.
// The feed expresses it as four attributes on a nested value element; the
// document model carries it through the position-indexed series as the
// delimiter-encoded form produced by Encode.
type Conditions struct {
	Coverage    string
	Intensity   string
	WeatherType string
	Qualifier   string
}

// Encode flattens the record into the pipe-delimited pseudo-value stored in
// a ParameterValue:
//
//	|coverage:<c>|intensity:<i>|weather-type:<w>|qualifier:<q>
func (c Conditions) Encode() string {
	return fmt.Sprintf("|coverage:%s|intensity:%s|weather-type:%s|qualifier:%s",
		c.Coverage, c.Intensity, c.WeatherType, c.Qualifier)
}

// ParseConditions reverses Encode. When a value concatenates several
// occurrences, only the first is decoded. Callers are expected to degrade a
// decode failure locally (an empty phrase) instead of failing the assembly.
func ParseConditions(s string) (Conditions, error) {
	parts := strings.Split(s, "|")
	if len(parts) < 4 {
		return Conditions{}, fmt.Errorf("malformed conditions value %q", s)
	}

	coverage, err := segmentValue(parts[1])
	if err != nil {
		return Conditions{}, err
	}
	intensity, err := segmentValue(parts[2])
	if err != nil {
		return Conditions{}, err
	}
	weatherType, err := segmentValue(parts[3])
	if err != nil {
		return Conditions{}, err
	}

	c := Conditions{Coverage: coverage, Intensity: intensity, WeatherType: weatherType}
	if len(parts) > 4 {
		if qualifier, err := segmentValue(parts[4]); err == nil {
			c.Qualifier = qualifier
		}
	}
	return c, nil
}

func segmentValue(segment string) (string, error) {
	_, value, found := strings.Cut(segment, ":")
	if !found {
		return "", fmt.Errorf("malformed conditions segment %q", segment)
	}
	return value, nil
}
