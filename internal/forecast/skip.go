package forecast

import (
	"time"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
)

// Skip policies are named package-level functions referenced from the recipe
// tables, so each field's filtering is a tagged strategy rather than an
// ad-hoc closure.

// SkipNightStart drops samples whose validity starts at night.
func SkipNightStart(v dwml.ParameterValue) bool {
	return isNight(v.Start)
}

// SkipCrossDaySpan drops samples whose validity interval crosses a calendar
// day. Used to keep the daytime half of the 12-hour precipitation
// probability pairs.
func SkipCrossDaySpan(v dwml.ParameterValue) bool {
	if v.End == nil {
		return false
	}
	return v.Start.Format(dateKeyLayout) != v.End.Format(dateKeyLayout)
}

// SkipSingleDaySpan drops samples whose validity interval stays within one
// calendar day, keeping the overnight half of the 12-hour pairs. A sample
// with no end instant counts as a single-day span.
func SkipSingleDaySpan(v dwml.ParameterValue) bool {
	if v.End == nil {
		return true
	}
	return v.Start.Format(dateKeyLayout) == v.End.Format(dateKeyLayout)
}

// SkipEmptyValue drops samples with an empty raw value.
func SkipEmptyValue(v dwml.ParameterValue) bool {
	return len(v.Value) == 0
}

// SkipNightSymbol drops icon links that resolve to a nighttime symbol.
// Symbols named with a leading 'n' (nra.jpg, nshr80.jpg) are night variants.
func SkipNightSymbol(v dwml.ParameterValue) bool {
	symbol := symbolFromLink(v.Value)
	return symbol != "" && symbol[0] == 'n'
}

// isNight applies the fixed-clock rule: before 06:00 or after 18:00 is
// night, with both boundaries counting as day. No seasonal or astronomical
// adjustment.
func isNight(t time.Time) bool {
	seconds := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return seconds < 6*3600 || seconds > 18*3600
}
