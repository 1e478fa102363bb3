package forecast

import (
	"math"
	"strconv"
)

// carryState threads the carry-forward values through the single ascending
// pass over hourly slots. The rain and snow carries are independent of each
// other and survive date boundaries; none of them resets per day.
type carryState struct {
	precip Value
	rain   float64
	snow   float64
}

// postProcess mutates the hourly projection in place, visiting slots sorted
// by date then time of day:
//
//   - the 12-hour precipitation probability is copied forward into slots
//     that lack one,
//   - rain and snow amounts arrive as 6-hour accumulations and are split in
//     half across the reporting slot and the following one,
//   - slots without a temperature are dropped; temperature presence is what
//     distinguishes a genuine forecast point from a precipitation-only
//     artifact. The drop happens after the carries run, so a dropped slot
//     still consumes carry state.
func postProcess(hourly Hourly) {
	state := carryState{}
	for _, date := range sortedKeys(hourly) {
		for _, timeOfDay := range sortedKeys(hourly[date]) {
			slot := hourly[date][timeOfDay]
			state = applyCarry(slot, state)
			if _, ok := slot["temp"]; !ok {
				delete(hourly[date], timeOfDay)
			}
		}
	}
}

// applyCarry advances one slot of the fold: it fills the slot from the carry
// state where the slot is missing data and returns the state for the next
// slot.
func applyCarry(slot map[string]Value, state carryState) carryState {
	current, ok := slot["precip"]
	if (!ok || isEmpty(current)) && !isEmpty(state.precip) {
		slot["precip"] = state.precip
	}
	if ok && !isEmpty(current) {
		state.precip = current
	}

	state.rain = halveAccumulation(slot, "rain_amount", state.rain)
	state.snow = halveAccumulation(slot, "snow_amount", state.snow)
	return state
}

// halveAccumulation splits a 6-hour accumulation across two slots: the
// reporting slot keeps half and the remembered half goes to the next slot
// that reports nothing. The remembered value is applied only when nonzero
// and is spent after one use.
func halveAccumulation(slot map[string]Value, field string, carry float64) float64 {
	if v, ok := slot[field]; ok && !isEmpty(v) {
		if amount, ok := toFloat(v); ok {
			half := math.Round(amount/2*100) / 100
			slot[field] = half
			return half
		}
	}
	if carry != 0 {
		slot[field] = carry
	}
	return 0
}

// isEmpty reports whether a slot value counts as absent data: nil or the
// empty string.
func isEmpty(v Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
