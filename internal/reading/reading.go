// Package reading defines the environmental reading data model and the
// timestamp normalization logic for the heterogeneous encodings the
// EnviroSense feed produces.
package reading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is the decoded body of a single feed record. The timestamp field
// is optional and may arrive as a string or a number depending on which
// firmware revision wrote the record.
type Value struct {
	Temperature float64         `json:"temperature"`
	LightLux    float64         `json:"light_lux"`
	Timestamp   json.RawMessage `json:"timestamp,omitempty"`
}

// TimestampCandidate returns the raw timestamp field as a string, or ""
// if the record carries none.
func (v Value) TimestampCandidate() string {
	if len(v.Timestamp) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Timestamp, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(v.Timestamp, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// Reading is a single normalized environmental measurement.
type Reading struct {
	Key         string    // raw source identifier
	Temperature float64   // °C
	LightLux    float64   // lux
	Time        time.Time // resolved absolute timestamp
}

// Resolve normalizes a raw (key, value) pair into a Reading. The key is
// tried first; a timestamp field inside the value is the fallback. The
// second return is false if neither yields a valid timestamp, in which
// case the record is dropped from the window.
func Resolve(key string, v Value) (Reading, bool) {
	t, _, ok := Normalize(key)
	if !ok {
		t, _, ok = Normalize(v.TimestampCandidate())
	}
	if !ok {
		return Reading{}, false
	}
	return Reading{
		Key:         key,
		Temperature: v.Temperature,
		LightLux:    v.LightLux,
		Time:        t,
	}, true
}

// Metric identifies one of the two displayed measurements.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricLight       Metric = "light"
)

// Metrics lists the displayed metrics in presentation order.
func Metrics() []Metric {
	return []Metric{MetricTemperature, MetricLight}
}

// ParseMetric maps a route/CLI name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTemperature:
		return MetricTemperature, nil
	case MetricLight:
		return MetricLight, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// DisplayName returns the human-readable metric name.
func (m Metric) DisplayName() string {
	if m == MetricLight {
		return "Light"
	}
	return "Temperature"
}

// Unit returns the unit suffix for the metric.
func (m Metric) Unit() string {
	if m == MetricLight {
		return "lux"
	}
	return "°C"
}

// Value extracts this metric's measurement from a reading.
func (m Metric) Value(r Reading) float64 {
	if m == MetricLight {
		return r.LightLux
	}
	return r.Temperature
}
