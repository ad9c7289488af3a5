package chart

import (
	"strings"

	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/luki/envirosense/internal/threshold"
)

// bandSeries plots one threshold band as a horizontal overlay line. It
// carries no data points: the line is constructed from the band value
// and the axis ranges at render time, so an out-of-range band renders
// nothing while its legend entry (name + color) is still emitted.
type bandSeries struct {
	band threshold.Band
}

var _ chartlib.Series = (*bandSeries)(nil)

func (bs bandSeries) GetName() string {
	return bs.band.Label
}

func (bs bandSeries) GetYAxis() chartlib.YAxisType {
	return chartlib.YAxisPrimary
}

func (bs bandSeries) GetStyle() chartlib.Style {
	style := chartlib.Style{
		StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(bs.band.Color, "#")),
		StrokeWidth: 1.5,
	}
	if bs.band.Dashed {
		style.StrokeDashArray = []float64{6.0, 6.0}
	}
	return style
}

func (bs bandSeries) Validate() error {
	return nil
}

func (bs bandSeries) Render(r chartlib.Renderer, canvasBox chartlib.Box, xrange, yrange chartlib.Range, defaults chartlib.Style) {
	if !bs.band.InRange(yrange.GetMin(), yrange.GetMax()) {
		return
	}

	style := bs.GetStyle().InheritFrom(defaults)
	style.GetStrokeOptions().WriteDrawingOptionsToRenderer(r)

	y := canvasBox.Bottom - yrange.Translate(bs.band.Value)
	r.MoveTo(canvasBox.Left, y)
	r.LineTo(canvasBox.Right, y)
	r.Stroke()
}
