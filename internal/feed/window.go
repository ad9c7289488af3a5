// Package feed fetches raw EnviroSense records from the remote data
// store and turns them into a bounded window of the most recent valid
// readings.
package feed

import (
	"math"

	"github.com/luki/envirosense/internal/reading"
)

// Window is an ordered sequence of up to N readings, newest-first. All
// members carry a resolved timestamp.
type Window []reading.Reading

// Latest returns the most recent reading. Only valid for a non-empty
// window; BuildWindow never produces an empty one.
func (w Window) Latest() reading.Reading {
	return w[0]
}

// Chronological returns a copy of the window ordered oldest-first, the
// order chart series are plotted in.
func (w Window) Chronological() []reading.Reading {
	out := make([]reading.Reading, len(w))
	for i, r := range w {
		out[len(w)-1-i] = r
	}
	return out
}

// Values extracts the metric's measurements in window (newest-first) order.
func (w Window) Values(m reading.Metric) []float64 {
	vals := make([]float64, len(w))
	for i, r := range w {
		vals[i] = m.Value(r)
	}
	return vals
}

// Range returns the minimum and maximum of the metric across the window.
func (w Window) Range(m reading.Metric) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, r := range w {
		v := m.Value(r)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Avg returns the mean of the metric across the window.
func (w Window) Avg(m reading.Metric) float64 {
	if len(w) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range w {
		sum += m.Value(r)
	}
	return sum / float64(len(w))
}
