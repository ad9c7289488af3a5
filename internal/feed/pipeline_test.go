package feed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/luki/envirosense/internal/reading"
)

func TestBuildWindowTruncatesNewestFirst(t *testing.T) {
	raw := make(map[string]reading.Value)
	base := int64(1700000000)
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("%d", base+int64(i)*60)
		raw[key] = reading.Value{Temperature: float64(20 + i), LightLux: float64(i)}
	}

	w, err := BuildWindow(raw, 12)
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}
	if len(w) != 12 {
		t.Fatalf("window length: got %d, want 12", len(w))
	}

	// Newest first: the 19th record (base + 19*60) leads.
	if got := w.Latest().Time.Unix(); got != base+19*60 {
		t.Errorf("latest: got %d, want %d", got, base+19*60)
	}
	for i := 1; i < len(w); i++ {
		if w[i].Time.After(w[i-1].Time) {
			t.Fatalf("window not newest-first at index %d", i)
		}
	}

	// Chart series ordering after reversal is oldest-first.
	chrono := w.Chronological()
	if len(chrono) != 12 {
		t.Fatalf("chronological length: got %d", len(chrono))
	}
	for i := 1; i < len(chrono); i++ {
		if chrono[i].Time.Before(chrono[i-1].Time) {
			t.Fatalf("chronological order broken at index %d", i)
		}
	}
	if !chrono[len(chrono)-1].Time.Equal(w.Latest().Time) {
		t.Error("chronological tail should be the newest reading")
	}
}

func TestBuildWindowDropsInvalid(t *testing.T) {
	raw := map[string]reading.Value{
		"1700000000":       {Temperature: 30},
		"garbage":          {Temperature: 31},
		"32-13-2025-1-1-1": {Temperature: 32},
		"7-9-2025-10-42-5": {Temperature: 33},
	}
	w, err := BuildWindow(raw, 12)
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}
	if len(w) != 2 {
		t.Errorf("window length: got %d, want 2", len(w))
	}
}

func TestBuildWindowAllInvalid(t *testing.T) {
	raw := map[string]reading.Value{
		"abc": {Temperature: 30},
		"def": {Temperature: 31},
	}
	if _, err := BuildWindow(raw, 12); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestBuildWindowEmptyDataset(t *testing.T) {
	if _, err := BuildWindow(nil, 12); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestBuildWindowTieBreakByKey(t *testing.T) {
	// Two records resolving to the same instant via different encodings:
	// ordering falls back to ascending key.
	raw := map[string]reading.Value{
		"zzz": {Timestamp: mustRaw(`1700000000`)},
		"aaa": {Timestamp: mustRaw(`1700000000`)},
	}
	w, err := BuildWindow(raw, 12)
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}
	if w[0].Key != "aaa" || w[1].Key != "zzz" {
		t.Errorf("tie order: got %q,%q, want aaa,zzz", w[0].Key, w[1].Key)
	}
}

func TestBuildWindowUnbounded(t *testing.T) {
	raw := map[string]reading.Value{
		"1700000000": {},
		"1700000060": {},
	}
	w, err := BuildWindow(raw, 0)
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}
	if len(w) != 2 {
		t.Errorf("n=0 should keep everything, got %d", len(w))
	}
}

func TestWindowStats(t *testing.T) {
	raw := map[string]reading.Value{
		"1700000000": {Temperature: 20, LightLux: 100},
		"1700000060": {Temperature: 30, LightLux: 300},
	}
	w, err := BuildWindow(raw, 12)
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}

	lo, hi := w.Range(reading.MetricTemperature)
	if lo != 20 || hi != 30 {
		t.Errorf("temperature range: got %f..%f, want 20..30", lo, hi)
	}
	if avg := w.Avg(reading.MetricLight); avg != 200 {
		t.Errorf("light avg: got %f, want 200", avg)
	}

	vals := w.Values(reading.MetricLight)
	if len(vals) != 2 || vals[0] != 300 {
		t.Errorf("values newest-first: got %v", vals)
	}
}
