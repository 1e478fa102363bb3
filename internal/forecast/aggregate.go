package forecast

import (
	"math"
	"sort"
	"strconv"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
)

// Reduction selects how the qualifying values of one date collapse into a
// single value.
type Reduction int

const (
	ReduceFirst Reduction = iota
	ReduceMean
	ReduceSum
	ReduceMax
	ReduceMin
	ReduceFirstNonEmpty
	ReduceMostFrequent
)

// SkipFunc decides whether a sample is excluded before grouping.
type SkipFunc func(dwml.ParameterValue) bool

// FormatFunc post-processes the reduced scalar (unit conversion, phrase
// construction, symbol extraction).
type FormatFunc func(Value) Value

// Options parametrizes one AggregateByDate pass.
type Options struct {
	Reduce   Reduction
	Numeric  bool // drop empty raw values and parse the rest as float64
	Decimals int  // numeric only: 0 truncates to int, N rounds to N places
	MinCount int  // dates with fewer qualifying values are dropped entirely
	Skip     SkipFunc
	Format   FormatFunc
}

// AggregateByDate reduces a parameter series into one value per calendar
// date, keyed by each sample's start date. Dates whose samples are all
// skipped, or that fall below MinCount, are absent from the result rather
// than present with a nil.
func AggregateByDate(values []dwml.ParameterValue, opts Options) map[string]Value {
	grouped := make(map[string][]string)
	for _, v := range values {
		if opts.Numeric && v.Value == "" {
			continue
		}
		if opts.Skip != nil && opts.Skip(v) {
			continue
		}
		date := v.Start.Format(dateKeyLayout)
		grouped[date] = append(grouped[date], v.Value)
	}

	out := make(map[string]Value, len(grouped))
	for date, raws := range grouped {
		if opts.MinCount > 0 && len(raws) < opts.MinCount {
			continue
		}

		var reduced Value
		if opts.Numeric {
			nums := parseFloats(raws)
			if len(nums) == 0 {
				continue
			}
			reduced = roundNumeric(reduceNumeric(nums, opts.Reduce), opts.Decimals)
		} else {
			reduced = reduceText(raws, opts.Reduce)
		}

		if opts.Format != nil {
			reduced = opts.Format(reduced)
		}
		out[date] = reduced
	}
	return out
}

// SingleByTime projects a series sampled at fixed instants into a
// date→time→value mapping. No grouping or reduction; only the optional
// formatter is applied.
func SingleByTime(values []dwml.ParameterValue, format FormatFunc) map[string]map[string]Value {
	out := make(map[string]map[string]Value)
	for _, v := range values {
		date := v.Start.Format(dateKeyLayout)
		timeOfDay := v.Start.Format(timeKeyLayout)
		if _, ok := out[date]; !ok {
			out[date] = make(map[string]Value)
		}
		var val Value = v.Value
		if format != nil {
			val = format(v.Value)
		}
		out[date][timeOfDay] = val
	}
	return out
}

// parseFloats keeps the samples that parse as numbers. Unparsable survivors
// of the empty-value filter are treated as absent data, not errors.
func parseFloats(raws []string) []float64 {
	nums := make([]float64, 0, len(raws))
	for _, r := range raws {
		n, err := strconv.ParseFloat(r, 64)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

func reduceNumeric(nums []float64, r Reduction) float64 {
	switch r {
	case ReduceMean:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum / float64(len(nums))
	case ReduceSum:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum
	case ReduceMax:
		maxVal := nums[0]
		for _, n := range nums[1:] {
			if n > maxVal {
				maxVal = n
			}
		}
		return maxVal
	case ReduceMin:
		minVal := nums[0]
		for _, n := range nums[1:] {
			if n < minVal {
				minVal = n
			}
		}
		return minVal
	default:
		return nums[0]
	}
}

func reduceText(raws []string, r Reduction) string {
	switch r {
	case ReduceFirstNonEmpty:
		for _, v := range raws {
			if len(v) > 0 {
				return v
			}
		}
		return ""
	case ReduceMostFrequent:
		return mostFrequent(raws)
	default:
		return raws[0]
	}
}

// mostFrequent returns the value with the highest occurrence count. Counts
// are scanned in first-occurrence order and a candidate wins only with a
// strictly greater count, so ties resolve deterministically to the value
// whose count first reaches the maximum.
func mostFrequent(values []string) string {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	var best string
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// roundNumeric truncates to int when decimals is zero, otherwise rounds to
// the requested number of places.
func roundNumeric(v float64, decimals int) Value {
	if decimals == 0 {
		return int(v)
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
