// Package threshold holds the static per-metric threshold bands used for
// chart overlay lines, legend entries, and the latest-tile alert status.
// The band values mirror the anomaly limits the sensing device alerts on.
package threshold

import "github.com/luki/envirosense/internal/reading"

// Band is one labeled numeric boundary. Color is a hex string usable by
// both the terminal styling and the PNG chart renderer.
type Band struct {
	Label  string
	Value  float64
	Color  string
	Dashed bool
}

var temperatureBands = []Band{
	{Label: "Lower limit (28°C)", Value: 28.00, Color: "#3b82f6", Dashed: true},
	{Label: "Upper limit (35°C)", Value: 35.00, Color: "#ef4444", Dashed: true},
}

var lightBands = []Band{
	{Label: "Lower limit (0 lux)", Value: 0.00, Color: "#3b82f6", Dashed: true},
	{Label: "Upper limit (200 lux)", Value: 200.00, Color: "#ef4444", Dashed: true},
}

// Bands returns the ordered band list for a metric. The returned slice
// must not be mutated.
func Bands(m reading.Metric) []Band {
	if m == reading.MetricLight {
		return lightBands
	}
	return temperatureBands
}

// InRange reports whether the band's value falls inside the chart's
// computed vertical range. Out-of-range bands are not drawn but still
// get a legend entry.
func (b Band) InRange(lo, hi float64) bool {
	return b.Value >= lo && b.Value <= hi
}

// Status classifies a value against a metric's band envelope.
type Status int

const (
	StatusOK Status = iota
	StatusLow
	StatusHigh
)

func (s Status) String() string {
	switch s {
	case StatusLow:
		return "LOW"
	case StatusHigh:
		return "HIGH"
	}
	return "OK"
}

// Classify returns the status of a value relative to the metric's lowest
// and highest band.
func Classify(m reading.Metric, v float64) Status {
	bands := Bands(m)
	if v < bands[0].Value {
		return StatusLow
	}
	if v > bands[len(bands)-1].Value {
		return StatusHigh
	}
	return StatusOK
}
