// Package dashboard implements the live terminal dashboard using
// BubbleTea: a latest-reading tile, per-metric tables, and sparkline
// charts with threshold overlays, refreshed from the remote feed on a
// fixed interval.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/envirosense/internal/chart"
	"github.com/luki/envirosense/internal/config"
	"github.com/luki/envirosense/internal/feed"
	"github.com/luki/envirosense/internal/reading"
	"github.com/luki/envirosense/internal/threshold"
)

const (
	longTimeLayout  = "Monday, 02 January 2006 15:04:05"
	shortTimeLayout = "02 Jan 15:04:05"
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type windowMsg struct {
	window feed.Window
	at     time.Time
}

// cycleSkippedMsg reports a failed fetch cycle. The previous window (and
// therefore the rendered surfaces) stays untouched.
type cycleSkippedMsg struct{ err error }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard.
type Model struct {
	cfg    *config.Config
	source *feed.Source
	log    *slog.Logger

	window    feed.Window
	lastFetch time.Time
	diag      error

	spin      spinner.Model
	width     int
	height    int
	scroll    int
	paused    bool
	startTime time.Time
}

// New creates the initial dashboard model.
func New(cfg *config.Config, src *feed.Source, log *slog.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	return Model{
		cfg:       cfg,
		source:    src,
		log:       log,
		spin:      sp,
		startTime: time.Now(),
	}
}

// Run launches the dashboard and blocks until the user quits.
func Run(cfg *config.Config, src *feed.Source, log *slog.Logger) error {
	p := tea.NewProgram(New(cfg, src, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd() tea.Cmd {
	src, n, refresh := m.source, m.cfg.WindowSize, m.cfg.Refresh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refresh)
		defer cancel()
		w, err := src.FetchWindow(ctx, n)
		if err != nil {
			return cycleSkippedMsg{err}
		}
		return windowMsg{window: w, at: time.Now()}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd(), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if len(m.window) == 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case windowMsg:
		m.window = msg.window
		m.lastFetch = msg.at
		m.diag = nil

	case cycleSkippedMsg:
		// Log and skip: previous surfaces stay as they were, the next
		// tick is the retry.
		m.diag = msg.err
		if errors.Is(msg.err, feed.ErrNoData) {
			m.log.Warn("cycle skipped: no valid readings")
		} else {
			m.log.Error("cycle skipped", "error", msg.err)
		}
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorHeading  = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorAlert    = lipgloss.Color("196")
	colorOk       = lipgloss.Color("78")
	colorPaused   = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 48 {
		contentWidth = 48
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.diag != nil {
		diagBox := lipgloss.NewStyle().
			Foreground(colorAlert).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" cycle skipped: %v", m.diag))
		sections = append(sections, diagBox)
	}

	if len(m.window) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render(m.spin.View() + " Waiting for feed data...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderLatestTile(contentWidth))
		for _, metric := range reading.Metrics() {
			sections = append(sections, m.renderMetricPanel(metric, contentWidth))
		}
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.clampScroll(content)
}

func (m Model) clampScroll(content string) string {
	lines := strings.Split(content, "\n")
	visible := m.height
	if visible < 5 {
		visible = 5
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := m.scroll
	if scroll > maxScroll {
		scroll = maxScroll
	}
	end := scroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[scroll:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("ENVIROSENSE DASHBOARD")

	var statusParts []string
	statusParts = append(statusParts, lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))))

	if !m.lastFetch.IsZero() {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorDim).
			Render("fetched "+m.lastFetch.Format("15:04:05")))
	}
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED"))
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

// renderLatestTile shows the newest reading: long-form timestamp, both
// metric values to two decimals, and the anomaly status.
func (m Model) renderLatestTile(width int) string {
	latest := m.window.Latest()

	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorHeading).
		Render("Latest reading")
	ts := lipgloss.NewStyle().
		Foreground(colorLabel).
		Render(latest.Time.Format(longTimeLayout))

	var valueParts []string
	alert := false
	for _, metric := range reading.Metrics() {
		v := metric.Value(latest)
		part := lipgloss.NewStyle().Foreground(colorDim).Render(metric.DisplayName()+" ") +
			chart.RenderValue(metric, v)
		valueParts = append(valueParts, part)
		if threshold.Classify(metric, v) != threshold.StatusOK {
			alert = true
		}
	}

	status := lipgloss.NewStyle().Foreground(colorOk).Render("● normal")
	if alert {
		status = lipgloss.NewStyle().Foreground(colorAlert).Bold(true).Render("● anomaly")
	}

	rows := []string{
		heading + "  " + ts,
		strings.Join(valueParts, lipgloss.NewStyle().Foreground(colorDim).Render("   │   ")) + "   " + status,
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderMetricPanel renders one metric's table and sparkline chart.
func (m Model) renderMetricPanel(metric reading.Metric, width int) string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorHeading).
		Render(metric.DisplayName()) +
		lipgloss.NewStyle().Foreground(colorDim).Render(" ("+metric.Unit()+")")

	rows := []string{heading}

	chartWidth := width - 28
	if chartWidth < 16 {
		chartWidth = 16
	}
	if chartWidth > 120 {
		chartWidth = 120
	}

	chrono := m.window.Chronological()
	lo, hi := chart.SeriesRange(metric, m.window)

	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	latestVal := metric.Value(m.window.Latest())
	spark := chart.RenderSparkline(chrono, metric, chartWidth, lo, hi)
	scale := chart.RenderThresholdScale(metric, latestVal, lo, hi, chartWidth)

	pad := strings.Repeat(" ", 10)
	rows = append(rows,
		pad+" "+frameL+spark+frameR+m.renderStats(metric),
		pad+" "+frameL+scale+frameR+" "+m.renderBandLegend(metric),
	)

	timeline := chart.RenderTimeline(chrono, chartWidth)
	if strings.TrimSpace(timeline) != "" {
		rows = append(rows, pad+"  "+timeline)
	}

	rows = append(rows, "")
	rows = append(rows, m.renderTable(metric)...)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderStats(metric reading.Metric) string {
	dim := lipgloss.NewStyle().Foreground(colorDim)
	val := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	lo, hi := m.window.Range(metric)
	return dim.Render(" avg") + val.Render(fmt.Sprintf("%7.2f", m.window.Avg(metric))) +
		dim.Render(" lo") + val.Render(fmt.Sprintf("%7.2f", lo)) +
		dim.Render(" hi") + val.Render(fmt.Sprintf("%7.2f", hi))
}

// renderBandLegend lists every band for the metric, in or out of range.
func (m Model) renderBandLegend(metric reading.Metric) string {
	var parts []string
	for _, b := range threshold.Bands(metric) {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render("──")
		parts = append(parts, swatch+lipgloss.NewStyle().Foreground(colorDim).Render(" "+b.Label))
	}
	return strings.Join(parts, "  ")
}

// renderTable renders the metric's readings newest-first with short-form
// timestamps.
func (m Model) renderTable(metric reading.Metric) []string {
	headStyle := lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	rows := []string{
		headStyle.Render(fmt.Sprintf("  %-18s %14s", "Time", metric.DisplayName())),
	}
	timeStyle := lipgloss.NewStyle().Foreground(colorLabel)
	for _, r := range m.window {
		rows = append(rows, "  "+
			timeStyle.Render(fmt.Sprintf("%-18s", r.Time.Format(shortTimeLayout)))+" "+
			chart.RenderValue(metric, metric.Value(r)))
	}
	return rows
}

func (m Model) renderFooter(width int) string {
	dim := lipgloss.NewStyle().Foreground(colorDim)
	legend := lipgloss.NewStyle().Foreground(colorOk).Render("██") + dim.Render(" normal ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Render("██") + dim.Render(" low ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Render("██") + dim.Render(" high ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render("│") + dim.Render(" 1min")

	keys := dim.Render("q") + lipgloss.NewStyle().Foreground(colorLabel).Render(":quit") +
		dim.Render("  j/k") + lipgloss.NewStyle().Foreground(colorLabel).Render(":scroll") +
		dim.Render("  p") + lipgloss.NewStyle().Foreground(colorLabel).Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, min, s)
	}
	return fmt.Sprintf("%dm%02ds", min, s)
}
