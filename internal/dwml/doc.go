// Package dwml models Digital Weather Markup Language documents, the XML
// format served by the National Weather Service NDFD interface.
//
// # Format
//
// A DWML feed bundles three sections:
//
//	location      — the point the forecast describes (key + coordinates)
//	time-layout   — named, ordered lists of validity periods
//	parameters    — one child element per meteorological variable
//
// Parameters do not carry timestamps themselves. Each one references a
// time-layout by key, and its Nth value is valid for the layout's Nth period.
// Period granularity differs per element: hourly temperature uses
// instantaneous samples (no end-valid-time), while daily min/max temperature,
// 12-hour precipitation probability, and precipitation/snow amounts use
// start/end intervals.
//
// Inside a time-layout, start-valid-time and end-valid-time children alternate
// in document order with no explicit pairing identifier. Parsing therefore
// assumes strict alternation and fails fast when an end marker appears before
// any start marker, rather than guessing a stricter pairing rule.
//
// Weather conditions are the one structured value in the feed: a
// weather-conditions element nests value children whose coverage, intensity,
// weather-type, and qualifier attributes describe one phenomenon each. They
// are flattened into the [Conditions] pseudo-value encoding so they can ride
// the same position-indexed series as every other element, and decoded again
// by the aggregation stage.
package dwml
