package forecast

import (
	"fmt"
	"strconv"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
)

// dailyRecipe binds one daily forecast field to its source element and
// aggregation policy.
type dailyRecipe struct {
	field   string
	element string
	opts    Options
}

// dailyRecipes drive the per-date aggregation pass. "low" is absent here: it
// needs two source elements and is handled by dailyLow. Rain and snow totals
// require at least 3 six-hour samples before a day's sum is considered
// representative.
var dailyRecipes = []dailyRecipe{
	{field: "high", element: "maxt", opts: Options{Reduce: ReduceFirst, Numeric: true}},
	{field: "precip_day", element: "pop12", opts: Options{Reduce: ReduceFirst, Numeric: true, Skip: SkipCrossDaySpan}},
	{field: "precip_night", element: "pop12", opts: Options{Reduce: ReduceFirst, Numeric: true, Skip: SkipSingleDaySpan}},
	{field: "rain_amount", element: "qpf", opts: Options{Reduce: ReduceSum, Numeric: true, Decimals: 2, Skip: SkipEmptyValue, MinCount: 3}},
	{field: "snow_amount", element: "snow", opts: Options{Reduce: ReduceSum, Numeric: true, Decimals: 1, Skip: SkipEmptyValue, MinCount: 3}},
	{field: "relative_humidity", element: "rhm", opts: Options{Reduce: ReduceMean, Numeric: true}},
	{field: "wind_gust", element: "wgust", opts: Options{Reduce: ReduceMax, Numeric: true, Format: FormatWindMPH}},
	{field: "wind_sustained", element: "wspd", opts: Options{Reduce: ReduceMean, Numeric: true, Format: FormatWindMPH}},
	{field: "weather", element: "wx", opts: Options{Reduce: ReduceFirstNonEmpty, Skip: SkipNightStart, Format: FormatWeatherPhrase}},
	{field: "wsym", element: "sym", opts: Options{Reduce: ReduceMostFrequent, Skip: SkipNightSymbol, Format: FormatSymbolName}},
}

// hourlyRecipe binds one hourly field to its source element and formatter.
type hourlyRecipe struct {
	field   string
	element string
	format  FormatFunc
}

var hourlyRecipes = []hourlyRecipe{
	{field: "temp", element: "temp"},
	{field: "precip", element: "pop12"},
	{field: "relative_humidity", element: "rhm"},
	{field: "rain_amount", element: "qpf"},
	{field: "snow_amount", element: "snow"},
	{field: "wind_sustained", element: "wspd", format: FormatWindMPH},
	{field: "wind_gust", element: "wgust", format: FormatWindMPH},
	{field: "sky", element: "sky"},
	{field: "weather", element: "wx", format: FormatWeatherPhrase},
	{field: "wsym", element: "sym", format: FormatSymbolName},
}

// Assemble converts a parsed document into the daily and hourly forecast
// projections. Every wired element must be present in the feed: a missing
// parameter aborts the whole assembly rather than producing a silently
// incomplete forecast.
func Assemble(doc *dwml.Document) (Forecast, error) {
	daily, err := assembleDaily(doc)
	if err != nil {
		return Forecast{}, err
	}
	hourly, err := assembleHourly(doc)
	if err != nil {
		return Forecast{}, err
	}
	postProcess(hourly)
	return Forecast{Daily: daily, Hourly: hourly}, nil
}

func assembleDaily(doc *dwml.Document) (Daily, error) {
	daily := make(Daily)
	for _, r := range dailyRecipes {
		param, err := parameterByCode(doc, r.element)
		if err != nil {
			return nil, err
		}
		mergeDaily(daily, r.field, AggregateByDate(param.Values, r.opts))
	}

	mins, err := parameterByCode(doc, "mint")
	if err != nil {
		return nil, err
	}
	temps, err := parameterByCode(doc, "temp")
	if err != nil {
		return nil, err
	}
	mergeDaily(daily, "low", dailyLow(mins.Values, temps.Values))

	return daily, nil
}

func assembleHourly(doc *dwml.Document) (Hourly, error) {
	hourly := make(Hourly)
	for _, r := range hourlyRecipes {
		param, err := parameterByCode(doc, r.element)
		if err != nil {
			return nil, err
		}
		mergeHourly(hourly, r.field, SingleByTime(param.Values, r.format))
	}
	return hourly, nil
}

// dailyLow reconciles the coarse daily-minimum element with the
// finer-grained hourly temperatures. Minimum-temperature periods span an
// evening-to-morning window, so each seed is keyed by its END date — the day
// the minimum describes. Any hourly sample touching a seeded date (by start
// or end) replaces the stored minimum when strictly lower.
func dailyLow(mins, hourlies []dwml.ParameterValue) map[string]Value {
	lows := make(map[string]int)
	for _, m := range mins {
		if m.End == nil {
			continue
		}
		n, err := strconv.Atoi(m.Value)
		if err != nil {
			continue
		}
		lows[m.End.Format(dateKeyLayout)] = n
	}

	for _, h := range hourlies {
		n, err := strconv.Atoi(h.Value)
		if err != nil {
			continue
		}
		startDate := h.Start.Format(dateKeyLayout)
		if cur, ok := lows[startDate]; ok && n < cur {
			lows[startDate] = n
		}
		if h.End != nil {
			endDate := h.End.Format(dateKeyLayout)
			if cur, ok := lows[endDate]; ok && n < cur {
				lows[endDate] = n
			}
		}
	}

	out := make(map[string]Value, len(lows))
	for date, low := range lows {
		out[date] = low
	}
	return out
}

// parameterByCode resolves an element code to its parameter through the
// display-name table.
func parameterByCode(doc *dwml.Document, code string) (*dwml.Parameter, error) {
	name, ok := elementNames[code]
	if !ok {
		return nil, fmt.Errorf("no display name wired for element %q", code)
	}
	param, err := doc.ParameterByName(name)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", code, err)
	}
	return param, nil
}

// mergeDaily folds one field's per-date values into the daily projection.
func mergeDaily(daily Daily, field string, add map[string]Value) {
	for date, v := range add {
		if _, ok := daily[date]; !ok {
			daily[date] = make(map[string]Value)
		}
		daily[date][field] = v
	}
}

// mergeHourly folds one field's per-date, per-time values into the hourly
// projection.
func mergeHourly(hourly Hourly, field string, add map[string]map[string]Value) {
	for date, times := range add {
		if _, ok := hourly[date]; !ok {
			hourly[date] = make(map[string]map[string]Value)
		}
		for timeOfDay, v := range times {
			if _, ok := hourly[date][timeOfDay]; !ok {
				hourly[date][timeOfDay] = make(map[string]Value)
			}
			hourly[date][timeOfDay][field] = v
		}
	}
}
