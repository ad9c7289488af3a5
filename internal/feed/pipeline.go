package feed

import (
	"errors"
	"sort"

	"github.com/luki/envirosense/internal/reading"
)

// ErrNoData signals that a fetch cycle produced no usable readings. The
// caller skips rendering and leaves prior presentation state untouched.
var ErrNoData = errors.New("feed: no valid readings in dataset")

// BuildWindow normalizes every (key, value) pair, drops the ones without
// a resolvable timestamp, sorts newest-first, and truncates to n entries.
// Records sharing an identical resolved timestamp are ordered by
// ascending key so the result is deterministic.
func BuildWindow(raw map[string]reading.Value, n int) (Window, error) {
	readings := make([]reading.Reading, 0, len(raw))
	for key, val := range raw {
		if r, ok := reading.Resolve(key, val); ok {
			readings = append(readings, r)
		}
	}

	if len(readings) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(readings, func(i, j int) bool {
		if !readings[i].Time.Equal(readings[j].Time) {
			return readings[i].Time.After(readings[j].Time)
		}
		return readings[i].Key < readings[j].Key
	})

	if n > 0 && len(readings) > n {
		readings = readings[:n]
	}
	return Window(readings), nil
}
