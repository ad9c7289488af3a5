package threshold

import (
	"testing"

	"github.com/luki/envirosense/internal/reading"
)

func TestBandsPerMetric(t *testing.T) {
	temp := Bands(reading.MetricTemperature)
	if len(temp) != 2 || temp[0].Value != 28.00 || temp[1].Value != 35.00 {
		t.Errorf("temperature bands: got %+v", temp)
	}
	light := Bands(reading.MetricLight)
	if len(light) != 2 || light[0].Value != 0.00 || light[1].Value != 200.00 {
		t.Errorf("light bands: got %+v", light)
	}
	for _, b := range append(temp, light...) {
		if b.Label == "" || b.Color == "" {
			t.Errorf("band missing label or color: %+v", b)
		}
	}
}

func TestInRange(t *testing.T) {
	b := Band{Value: 35}
	if !b.InRange(20, 40) {
		t.Error("35 should be inside 20..40")
	}
	if b.InRange(20, 30) {
		t.Error("35 should be outside 20..30")
	}
	if !b.InRange(35, 35) {
		t.Error("boundary value counts as in range")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		m    reading.Metric
		v    float64
		want Status
	}{
		{reading.MetricTemperature, 30, StatusOK},
		{reading.MetricTemperature, 27.5, StatusLow},
		{reading.MetricTemperature, 35.5, StatusHigh},
		{reading.MetricLight, 100, StatusOK},
		{reading.MetricLight, 250, StatusHigh},
		{reading.MetricLight, -1, StatusLow},
	}
	for _, c := range cases {
		if got := Classify(c.m, c.v); got != c.want {
			t.Errorf("Classify(%s, %v): got %v, want %v", c.m, c.v, got, c.want)
		}
	}
}
