// Package forecast turns a parsed DWML document into normalized daily and
// hourly forecast records. Each output field is produced by one aggregation
// recipe (source element, reduction, skip policy, formatter) and merged into
// the date-indexed result; a final single ascending pass over the hourly
// records carries sparse values forward and prunes artifact slots.
package forecast

// Value is a single forecast field value: a number, a string, or nil when a
// formatter could not derive one from the raw sample.
type Value = any

// Daily maps "YYYY-MM-DD" date keys to field→value records.
type Daily map[string]map[string]Value

// Hourly maps date keys to "HH:MM:SS" time-of-day keys to field→value
// records.
type Hourly map[string]map[string]map[string]Value

// Forecast is the assembled two-projection output. It is built once per
// Assemble call and handed to the caller; nothing retains it afterwards.
type Forecast struct {
	Daily  Daily  `json:"daily"`
	Hourly Hourly `json:"hourly"`
}

const (
	dateKeyLayout = "2006-01-02"
	timeKeyLayout = "15:04:05"
)
