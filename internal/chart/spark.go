// Package chart renders the window of readings as terminal sparklines
// and as PNG line charts with threshold overlay lines and legends.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/envirosense/internal/reading"
	"github.com/luki/envirosense/internal/threshold"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ValueColor returns the terminal color for a value given its metric's
// band classification.
func ValueColor(m reading.Metric, v float64) lipgloss.Color {
	bands := threshold.Bands(m)
	switch threshold.Classify(m, v) {
	case threshold.StatusLow:
		return lipgloss.Color(bands[0].Color)
	case threshold.StatusHigh:
		return lipgloss.Color(bands[len(bands)-1].Color)
	}
	// Near the upper band gets a warning tint.
	upper := bands[len(bands)-1].Value
	if upper > 0 && v >= upper*0.85 {
		return lipgloss.Color("220")
	}
	return lipgloss.Color("78")
}

// RenderSparkline renders the metric's series (oldest-first) as
// color-coded block characters. A subtle pipe marks minute boundaries.
func RenderSparkline(points []reading.Reading, m reading.Metric, width int, rangeMin, rangeMax float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		v := m.Value(p)
		norm := (v - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))

		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		style := lipgloss.NewStyle().Foreground(ValueColor(m, v))
		if threshold.Classify(m, v) != threshold.StatusOK {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

func isMinuteTick(points []reading.Reading, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	return i > 0 && !points[i-1].Time.IsZero() && p.Time.Minute() != points[i-1].Time.Minute()
}

// RenderTimeline renders HH:MM labels under the sparkline at each minute
// tick position.
func RenderTimeline(points []reading.Reading, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}
	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick
	for i, p := range points {
		if isMinuteTick(points, i) {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render(string(line))
}

// RenderThresholdScale renders a scale bar marking the current value and
// every in-range threshold band. Out-of-range bands are omitted from the
// bar; the legend still lists them.
func RenderThresholdScale(m reading.Metric, current, rangeMin, rangeMax float64, width int) string {
	if width <= 0 {
		return ""
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	bandAt := make(map[int]threshold.Band)
	for _, b := range threshold.Bands(m) {
		if !b.InRange(rangeMin, rangeMax) {
			continue
		}
		pos := int(float64(width-1) * (b.Value - rangeMin) / span)
		if pos >= 0 && pos < width {
			bandAt[pos] = b
		}
	}

	curPos := int(float64(width-1) * (current - rangeMin) / span)
	curPos = int(math.Max(0, math.Min(float64(width-1), float64(curPos))))

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			style := lipgloss.NewStyle().Foreground(ValueColor(m, current)).Bold(true)
			sb.WriteString(style.Render("◆"))
		case bandAt[i].Label != "":
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(bandAt[i].Color))
			sb.WriteString(style.Render("▪"))
		default:
			sb.WriteString(dim.Render("·"))
		}
	}
	return sb.String()
}

// RenderValue renders a measurement with unit suffix and band coloring,
// rounded to 2 decimal places.
func RenderValue(m reading.Metric, v float64) string {
	s := fmt.Sprintf("%.2f %s", v, m.Unit())
	style := lipgloss.NewStyle().Foreground(ValueColor(m, v))
	if threshold.Classify(m, v) != threshold.StatusOK {
		style = style.Bold(true)
	}
	return style.Render(s)
}
