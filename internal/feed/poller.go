package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Poller drives the ingestion pipeline on a fixed interval and hands
// each resulting window to a callback. Cycles run sequentially on one
// goroutine, so a slow fetch delays the next tick instead of overlapping
// it.
type Poller struct {
	Source   *Source
	Interval time.Duration
	WindowN  int
	Log      *slog.Logger

	// OnWindow receives each successfully built window along with the
	// cycle time. Failed cycles (transport, decode, no data) are logged
	// and skipped; the next tick is the retry.
	OnWindow func(Window, time.Time)
}

// Run polls until the context is cancelled. The first cycle runs
// immediately rather than waiting a full interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	start := time.Now()
	w, err := p.Source.FetchWindow(ctx, p.WindowN)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			p.Log.Warn("cycle skipped: dataset empty or all timestamps invalid")
		} else if ctx.Err() == nil {
			p.Log.Error("cycle skipped", "error", err)
		}
		return
	}
	p.Log.Info("window refreshed",
		"readings", len(w),
		"latest", w.Latest().Time.Format(time.RFC3339),
		"fetch_ms", time.Since(start).Milliseconds())
	p.OnWindow(w, start)
}
