// Package web serves the EnviroSense dashboard over HTTP: an HTML page,
// JSON endpoints for the latest tile and the tables, and PNG chart
// images, all refreshed from the poller's windows.
package web

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/luki/envirosense/internal/chart"
	"github.com/luki/envirosense/internal/feed"
	"github.com/luki/envirosense/internal/reading"
	"github.com/luki/envirosense/internal/threshold"
)

const (
	longTimeLayout  = "Monday, 02 January 2006 15:04:05"
	shortTimeLayout = "02 Jan 15:04:05"
)

// Server holds the current window and chart handles, replaced atomically
// on every poll cycle.
type Server struct {
	log     *slog.Logger
	charts  *chart.Renderer
	metrics *Metrics

	mu        sync.RWMutex
	window    feed.Window
	updatedAt time.Time
}

// NewServer creates a serve-mode presentation adapter. charts may be nil,
// in which case the chart surface is skipped and the remaining surfaces
// still work.
func NewServer(charts *chart.Renderer, log *slog.Logger) *Server {
	return &Server{
		log:     log,
		charts:  charts,
		metrics: NewMetrics(),
	}
}

// OnWindow installs a freshly ingested window and re-renders the chart
// surface. A chart render failure skips that surface only; the JSON and
// HTML surfaces still see the new window.
func (s *Server) OnWindow(w feed.Window, at time.Time) {
	s.mu.Lock()
	s.window = w
	s.updatedAt = at
	s.mu.Unlock()

	s.metrics.windowsTotal.Inc()
	s.metrics.windowSize.Set(float64(len(w)))

	if s.charts == nil {
		return
	}
	start := time.Now()
	for _, m := range reading.Metrics() {
		if _, err := s.charts.Render(m, w); err != nil {
			s.log.Error("chart surface skipped", "metric", m, "error", err)
		}
	}
	s.metrics.observeRender(start)
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Handle("/", s.metrics.instrument("index", http.HandlerFunc(s.handleIndex))).Methods(http.MethodGet)
	r.Handle("/api/latest", s.metrics.instrument("latest", http.HandlerFunc(s.handleLatest))).Methods(http.MethodGet)
	r.Handle("/api/readings", s.metrics.instrument("readings", http.HandlerFunc(s.handleReadings))).Methods(http.MethodGet)
	r.Handle("/charts/{metric}.png", s.metrics.instrument("chart", http.HandlerFunc(s.handleChart))).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return handlers.CombinedLoggingHandler(os.Stdout, r)
}

// ListenAndServe runs the dashboard server until it fails.
func (s *Server) ListenAndServe(bind string) error {
	s.log.Info("dashboard listening", "bind", bind)
	srv := &http.Server{
		Addr:              bind,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) snapshot() (feed.Window, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window, s.updatedAt
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

type latestResponse struct {
	Time        string  `json:"time"`
	TimeDisplay string  `json:"time_display"`
	Temperature float64 `json:"temperature"`
	LightLux    float64 `json:"light_lux"`
	Status      string  `json:"status"`
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	window, _ := s.snapshot()
	if len(window) == 0 {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}

	latest := window.Latest()
	status := threshold.StatusOK
	for _, m := range reading.Metrics() {
		if st := threshold.Classify(m, m.Value(latest)); st != threshold.StatusOK {
			status = st
		}
	}

	writeJSON(w, latestResponse{
		Time:        latest.Time.Format(time.RFC3339),
		TimeDisplay: latest.Time.Format(longTimeLayout),
		Temperature: round2(latest.Temperature),
		LightLux:    round2(latest.LightLux),
		Status:      status.String(),
	})
}

type readingRow struct {
	Time        string  `json:"time"`
	TimeDisplay string  `json:"time_display"`
	Temperature float64 `json:"temperature"`
	LightLux    float64 `json:"light_lux"`
}

type readingsResponse struct {
	UpdatedAt string       `json:"updated_at"`
	Count     int          `json:"count"`
	Readings  []readingRow `json:"readings"`
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	window, updatedAt := s.snapshot()
	if len(window) == 0 {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}

	resp := readingsResponse{
		UpdatedAt: updatedAt.Format(time.RFC3339),
		Count:     len(window),
		Readings:  make([]readingRow, 0, len(window)),
	}
	for _, rd := range window {
		resp.Readings = append(resp.Readings, readingRow{
			Time:        rd.Time.Format(time.RFC3339),
			TimeDisplay: rd.Time.Format(shortTimeLayout),
			Temperature: round2(rd.Temperature),
			LightLux:    round2(rd.LightLux),
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.charts == nil {
		writeError(w, http.StatusNotFound, "chart surface disabled")
		return
	}
	m, err := reading.ParseMetric(mux.Vars(r)["metric"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h := s.charts.Handle(m)
	if h == nil || h.PNG() == nil {
		writeError(w, http.StatusServiceUnavailable, "no chart yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(h.PNG())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	window, updatedAt := s.snapshot()
	writeJSON(w, map[string]any{
		"status":     "ok",
		"readings":   len(window),
		"updated_at": updatedAt.Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
