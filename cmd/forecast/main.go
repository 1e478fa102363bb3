// Command forecast converts one DWML feed into the normalized forecast JSON
// and prints it to stdout. The feed comes either from a local file or from
// the NDFD service for a lat/lon point.
//
// Usage:
//
//	go run ./cmd/forecast -file feed.xml
//	go run ./cmd/forecast -lat 38.99 -lon -77.01
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cloudwatcher/ndfd-forecast/internal/adapter/ndfd"
	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
	"github.com/cloudwatcher/ndfd-forecast/internal/forecast"
	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
)

func main() {
	file := flag.String("file", "", "path to a DWML XML file (skips the network fetch)")
	lat := flag.Float64("lat", 0, "point latitude")
	lon := flag.Float64("lon", 0, "point longitude")
	baseURL := flag.String("url", "https://graphical.weather.gov/xml/SOAP_server/ndfdXMLclient.php", "NDFD endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	if *file == "" && *lat == 0 && *lon == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *lat, *lon, *baseURL, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(file string, lat, lon float64, baseURL string, timeout time.Duration) int {
	xmlText, err := loadFeed(file, lat, lon, baseURL, timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load feed: %v\n", err)
		return 1
	}

	doc, err := dwml.Parse(xmlText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse dwml: %v\n", err)
		return 1
	}

	fc, err := forecast.Assemble(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "assemble forecast: %v\n", err)
		return 1
	}

	result := pipeline.Result{
		Latitude:    lat,
		Longitude:   lon,
		GeneratedAt: time.Now().UTC(),
		Forecast:    fc,
	}
	if len(doc.Locations) > 0 {
		result.Location = doc.Locations[0].Name
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		return 1
	}
	return 0
}

func loadFeed(file string, lat, lon float64, baseURL string, timeout time.Duration) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := ndfd.NewClient(baseURL, timeout, 2, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout*3)
	defer cancel()
	return client.FetchXML(ctx, lat, lon)
}
