package chart

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/luki/envirosense/internal/feed"
	"github.com/luki/envirosense/internal/reading"
	"github.com/luki/envirosense/internal/threshold"
)

const (
	defaultChartWidth  = 900
	defaultChartHeight = 360
)

// Handle owns one live rendered chart for a metric. A new render closes
// and replaces the previous handle, so resources never accumulate across
// refresh cycles.
type Handle struct {
	Metric     reading.Metric
	RenderedAt time.Time

	mu     sync.Mutex
	png    []byte
	closed bool
}

// PNG returns the rendered image bytes, or nil if the handle has been
// closed.
func (h *Handle) PNG() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	return h.png
}

// Close releases the handle's image data.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.png = nil
}

// Closed reports whether the handle has been released.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Renderer renders PNG line charts and manages the one-live-handle-per-
// metric lifecycle.
type Renderer struct {
	width  int
	height int

	mu      sync.Mutex
	handles map[reading.Metric]*Handle
}

// NewRenderer creates a renderer. Zero dimensions get defaults.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return &Renderer{
		width:   width,
		height:  height,
		handles: make(map[reading.Metric]*Handle),
	}
}

// Render draws the metric's series from the window (plotted oldest to
// newest) plus threshold overlays, closes the previous handle for the
// metric, and returns the replacement.
func (r *Renderer) Render(m reading.Metric, w feed.Window) (*Handle, error) {
	png, err := RenderPNG(m, w, r.width, r.height)
	if err != nil {
		return nil, err
	}

	h := &Handle{Metric: m, RenderedAt: time.Now(), png: png}

	r.mu.Lock()
	if prev := r.handles[m]; prev != nil {
		prev.Close()
	}
	r.handles[m] = h
	r.mu.Unlock()
	return h, nil
}

// Handle returns the current live handle for a metric, or nil if the
// metric has not been rendered yet.
func (r *Renderer) Handle(m reading.Metric) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[m]
}

// Live counts handles that are held and not closed.
func (r *Renderer) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.handles {
		if h != nil && !h.Closed() {
			n++
		}
	}
	return n
}

// SeriesRange computes the chart's vertical range for a metric: the
// window's min/max padded out so the line doesn't hug the frame.
func SeriesRange(m reading.Metric, w feed.Window) (lo, hi float64) {
	lo, hi = w.Range(m)
	pad := (hi - lo) * 0.15
	if pad < 1 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// RenderPNG renders one metric chart to PNG bytes without touching any
// handle state.
func RenderPNG(m reading.Metric, w feed.Window, width, height int) ([]byte, error) {
	if len(w) == 0 {
		return nil, fmt.Errorf("chart: empty window for %s", m)
	}

	chrono := w.Chronological()
	times := make([]time.Time, len(chrono))
	values := make([]float64, len(chrono))
	for i, r := range chrono {
		times[i] = r.Time
		values[i] = m.Value(r)
	}
	// go-chart cannot plot a single point; extend it one second.
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Second))
		values = append(values, values[0])
	}

	yMin, yMax := SeriesRange(m, w)

	series := []chartlib.Series{
		chartlib.TimeSeries{
			Name:    fmt.Sprintf("%s (%s)", m.DisplayName(), m.Unit()),
			XValues: times,
			YValues: values,
			Style: chartlib.Style{
				StrokeColor: drawing.ColorFromHex("10b981"),
				StrokeWidth: 2.2,
				DotColor:    drawing.ColorFromHex("10b981"),
				DotWidth:    2.5,
			},
		},
	}

	// One overlay series per band. Each always contributes a legend
	// entry; the line itself is only drawn when the band value falls
	// inside the chart's vertical range.
	for _, b := range threshold.Bands(m) {
		series = append(series, bandSeries{band: b})
	}

	ch := chartlib.Chart{
		Title:      fmt.Sprintf("%s — last %d readings", m.DisplayName(), len(w)),
		Width:      width,
		Height:     height,
		Background: chartlib.Style{Padding: chartlib.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		XAxis: chartlib.XAxis{
			ValueFormatter: chartlib.TimeValueFormatterWithFormat("15:04:05"),
		},
		YAxis: chartlib.YAxis{
			Name:  m.Unit(),
			Range: &chartlib.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chartlib.Renderable{chartlib.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chartlib.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render %s: %w", m, err)
	}
	return buf.Bytes(), nil
}
