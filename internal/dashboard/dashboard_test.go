package dashboard

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/envirosense/internal/config"
	"github.com/luki/envirosense/internal/feed"
	"github.com/luki/envirosense/internal/reading"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := &config.Config{
		SourceURL:  "http://localhost/unused",
		WindowSize: 12,
		Refresh:    5 * time.Second,
	}
	m := New(cfg, feed.NewSource(cfg.SourceURL, "", nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.width = 100
	m.height = 60
	return m
}

func testWindow() feed.Window {
	base := time.Date(2026, 8, 30, 10, 15, 0, 0, time.Local)
	w := feed.Window{}
	for i := 2; i >= 0; i-- {
		w = append(w, reading.Reading{
			Key:         "k",
			Temperature: 29.81 + float64(i),
			LightLux:    140.5 + float64(i),
			Time:        base.Add(time.Duration(i) * 5 * time.Second),
		})
	}
	return w
}

func TestViewWaitingState(t *testing.T) {
	m := testModel(t)
	if !strings.Contains(m.View(), "Waiting for feed data") {
		t.Error("expected waiting state before the first window arrives")
	}
}

func TestViewRendersSurfaces(t *testing.T) {
	m := testModel(t)
	m.window = testWindow()

	view := m.View()
	for _, want := range []string{
		"Latest reading",
		"Temperature",
		"Light",
		"31.81 °C", // latest value, 2 decimals, unit suffix
		"142.50 lux",
		"Upper limit (35°C)",              // band legend entry
		"Sunday, 30 August 2026 10:15:10", // long-form latest timestamp
		"30 Aug 10:15:10",                 // short-form table timestamp
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewIdempotent(t *testing.T) {
	m := testModel(t)
	m.window = testWindow()
	if m.View() != m.View() {
		t.Error("re-rendering must fully replace, producing identical output")
	}
}

func TestCycleSkippedKeepsWindow(t *testing.T) {
	m := testModel(t)
	m.window = testWindow()
	before := m.View()

	next, _ := m.Update(cycleSkippedMsg{err: errors.New("dial tcp: connection refused")})
	m = next.(Model)

	after := m.View()
	if !strings.Contains(after, "cycle skipped") {
		t.Error("expected a diagnostic line after a failed cycle")
	}
	if !strings.Contains(after, "31.81 °C") {
		t.Error("previous window content must survive a failed cycle")
	}

	// A later good window clears the diagnostic.
	next, _ = m.Update(windowMsg{window: testWindow(), at: time.Now()})
	m = next.(Model)
	if strings.Contains(m.View(), "cycle skipped") {
		t.Error("diagnostic should clear on the next good cycle")
	}
	_ = before
}

func TestNoDataSkipKeepsWindow(t *testing.T) {
	m := testModel(t)
	m.window = testWindow()

	next, _ := m.Update(cycleSkippedMsg{err: feed.ErrNoData})
	m = next.(Model)
	if !strings.Contains(m.View(), "31.81 °C") {
		t.Error("no-data cycle must leave prior content untouched")
	}
}

func TestPauseSuspendsFetch(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = next.(Model)
	if !m.paused {
		t.Fatal("p should pause")
	}

	// While paused a tick only reschedules itself, it does not fetch.
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("paused tick should still schedule the next tick")
	}
}
