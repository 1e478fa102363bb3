package dwml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Parse converts raw DWML text into a Document. The format decouples values
// from validity periods through shared time-layout keys, and both the
// start/end pairing inside a layout and the value/period zipping are purely
// positional, so parsing walks the token stream in document order instead of
// relying on struct-tag decoding.
func Parse(xmlText string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	doc := &Document{TimeLayouts: make(map[string]TimeLayout)}
	var raws []rawParameter

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode dwml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "location":
			loc, err := parseLocation(dec, start)
			if err != nil {
				return nil, err
			}
			doc.Locations = append(doc.Locations, loc)
		case "time-layout":
			layout, err := parseTimeLayout(dec, start)
			if err != nil {
				return nil, err
			}
			doc.TimeLayouts[layout.Key] = layout
		case "parameters":
			ps, err := parseParameters(dec, start)
			if err != nil {
				return nil, err
			}
			raws = append(raws, ps...)
		}
	}

	for _, raw := range raws {
		param, err := resolveParameter(raw, doc.TimeLayouts)
		if err != nil {
			return nil, err
		}
		doc.Parameters = append(doc.Parameters, param)
	}

	return doc, nil
}

// rawParameter holds a parameter before its values are zipped against the
// referenced layout's periods.
type rawParameter struct {
	tag           string
	name          string
	timeLayoutKey string
	typ           string
	units         string
	values        []string
}

func parseLocation(dec *xml.Decoder, start xml.StartElement) (Location, error) {
	var loc Location
	for {
		tok, err := dec.Token()
		if err != nil {
			return Location{}, fmt.Errorf("decode location: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "location-key":
				text, err := readText(dec, t)
				if err != nil {
					return Location{}, err
				}
				loc.Name = text
			case "point":
				loc.Latitude = attrValue(t, "latitude")
				loc.Longitude = attrValue(t, "longitude")
				if err := dec.Skip(); err != nil {
					return Location{}, fmt.Errorf("decode location point: %w", err)
				}
			default:
				if err := dec.Skip(); err != nil {
					return Location{}, fmt.Errorf("decode location: %w", err)
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return loc, nil
			}
		}
	}
}

func parseTimeLayout(dec *xml.Decoder, start xml.StartElement) (TimeLayout, error) {
	layout := TimeLayout{
		Coordinate:    attrValue(start, "time-coordinate"),
		Summarization: attrValue(start, "summarization"),
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return TimeLayout{}, fmt.Errorf("decode time-layout: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text, err := readText(dec, t)
			if err != nil {
				return TimeLayout{}, err
			}
			switch t.Name.Local {
			case "layout-key":
				layout.Key = text
			case "start-valid-time":
				layout.Periods = append(layout.Periods, Period{Start: text})
			case "end-valid-time":
				// The feed alternates start/end markers in document order;
				// an end with no open period means that assumption broke.
				if len(layout.Periods) == 0 {
					return TimeLayout{}, fmt.Errorf("time-layout %q: end-valid-time before any start-valid-time", layout.Key)
				}
				layout.Periods[len(layout.Periods)-1].End = text
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return layout, nil
			}
		}
	}
}

func parseParameters(dec *xml.Decoder, start xml.StartElement) ([]rawParameter, error) {
	var params []rawParameter
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode parameters: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			param, err := parseParameter(dec, t)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		case xml.EndElement:
			if t.Name == start.Name {
				return params, nil
			}
		}
	}
}

func parseParameter(dec *xml.Decoder, start xml.StartElement) (rawParameter, error) {
	param := rawParameter{
		tag:           start.Name.Local,
		timeLayoutKey: attrValue(start, "time-layout"),
		typ:           attrValue(start, "type"),
		units:         attrValue(start, "units"),
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return rawParameter{}, fmt.Errorf("decode parameter %q: %w", param.tag, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				text, err := readText(dec, t)
				if err != nil {
					return rawParameter{}, err
				}
				param.name = text
			case "value", "icon-link":
				text, err := readText(dec, t)
				if err != nil {
					return rawParameter{}, err
				}
				param.values = append(param.values, text)
			case "weather-conditions":
				encoded, err := parseWeatherConditions(dec, t)
				if err != nil {
					return rawParameter{}, err
				}
				param.values = append(param.values, encoded)
			default:
				if err := dec.Skip(); err != nil {
					return rawParameter{}, fmt.Errorf("decode parameter %q: %w", param.tag, err)
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return param, nil
			}
		}
	}
}

// parseWeatherConditions flattens one weather-conditions occurrence into a
// single encoded pseudo-value so it can ride the position-indexed series.
// An occurrence with no nested values encodes to the empty string.
func parseWeatherConditions(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("decode weather-conditions: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "value" {
				c := Conditions{
					Coverage:    attrValue(t, "coverage"),
					Intensity:   attrValue(t, "intensity"),
					WeatherType: attrValue(t, "weather-type"),
					Qualifier:   attrValue(t, "qualifier"),
				}
				sb.WriteString(c.Encode())
			}
			if err := dec.Skip(); err != nil {
				return "", fmt.Errorf("decode weather-conditions: %w", err)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return sb.String(), nil
			}
		}
	}
}

// resolveParameter zips a parameter's raw values positionally against its
// layout's periods, parsing each period's timestamps.
func resolveParameter(raw rawParameter, layouts map[string]TimeLayout) (Parameter, error) {
	layout, ok := layouts[raw.timeLayoutKey]
	if !ok {
		return Parameter{}, fmt.Errorf("parameter %q references unknown time layout %q", raw.tag, raw.timeLayoutKey)
	}
	if len(raw.values) != len(layout.Periods) {
		return Parameter{}, fmt.Errorf("misaligned series: parameter %q has %d values but layout %q has %d periods",
			raw.tag, len(raw.values), layout.Key, len(layout.Periods))
	}

	values := make([]ParameterValue, 0, len(raw.values))
	for i, v := range raw.values {
		period := layout.Periods[i]
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return Parameter{}, fmt.Errorf("layout %q: parse start time %q: %w", layout.Key, period.Start, err)
		}
		pv := ParameterValue{Value: v, Start: start}
		if period.End != "" {
			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				return Parameter{}, fmt.Errorf("layout %q: parse end time %q: %w", layout.Key, period.End, err)
			}
			pv.End = &end
		}
		values = append(values, pv)
	}

	return Parameter{
		Tag:           raw.tag,
		Name:          raw.name,
		TimeLayoutKey: raw.timeLayoutKey,
		Type:          raw.typ,
		Units:         raw.units,
		Values:        values,
	}, nil
}

// readText collects the character data of an element, skipping any nested
// elements, until the matching end tag.
func readText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", fmt.Errorf("decode %s: %w", start.Name.Local, err)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return strings.TrimSpace(sb.String()), nil
			}
		}
	}
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
