package dwml

import (
	"errors"
	"fmt"
	"time"
)

// ErrParameterNotFound is returned when a document does not carry a parameter
// with the requested display name.
var ErrParameterNotFound = errors.New("parameter not found")

// Location identifies the point a document describes. Latitude and longitude
// are kept as the raw attribute strings; the feed may omit them.
type Location struct {
	Name      string
	Latitude  string
	Longitude string
}

// Period is one validity period of a time layout, in raw timestamp strings.
// End is empty for layouts that model instantaneous samples.
type Period struct {
	Start string
	End   string
}

// TimeLayout is a named, ordered list of validity periods shared by reference
// across one or more parameters. Period order is document order; the Nth
// value of a parameter referencing this layout belongs to the Nth period.
type TimeLayout struct {
	Key           string
	Coordinate    string
	Summarization string
	Periods       []Period
}

// ParameterValue is a single observation: the raw value plus its resolved
// validity instants. End is nil for instantaneous samples.
type ParameterValue struct {
	Value string
	Start time.Time
	End   *time.Time
}

// Parameter is one meteorological element's full time series.
type Parameter struct {
	Tag           string
	Name          string
	TimeLayoutKey string
	Type          string
	Units         string
	Values        []ParameterValue
}

// Document is the typed representation of a DWML feed. It is built once by
// Parse and never mutated afterwards.
type Document struct {
	Locations   []Location
	TimeLayouts map[string]TimeLayout
	Parameters  []Parameter
}

// ParameterByName returns the parameter with the given display name.
// Names are assumed unique per document; the first match wins.
func (d *Document) ParameterByName(name string) (*Parameter, error) {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
}
