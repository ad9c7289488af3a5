package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerSkipsFailedCycles(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First cycle fails, later ones succeed; the poller must keep
		// going without delivering a window for the failed one.
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"1700000000": {"temperature": 25, "light_lux": 10}}`))
	}))
	defer srv.Close()

	var delivered atomic.Int64
	p := &Poller{
		Source:   NewSource(srv.URL, "", nil),
		Interval: 10 * time.Millisecond,
		WindowN:  12,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnWindow: func(w Window, _ time.Time) {
			if len(w) != 1 {
				t.Errorf("window length: got %d, want 1", len(w))
			}
			delivered.Add(1)
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	if calls.Load() < 2 {
		t.Fatalf("expected multiple cycles, got %d", calls.Load())
	}
	if delivered.Load() == 0 {
		t.Fatal("expected at least one delivered window")
	}
}
