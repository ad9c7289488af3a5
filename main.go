// EnviroSense dashboard: polls the remote sensor feed on a fixed
// interval and presents the most recent readings as a live terminal
// dashboard or an HTTP dashboard with PNG charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luki/envirosense/internal/chart"
	"github.com/luki/envirosense/internal/config"
	"github.com/luki/envirosense/internal/dashboard"
	"github.com/luki/envirosense/internal/feed"
	"github.com/luki/envirosense/internal/logging"
	"github.com/luki/envirosense/internal/reading"
	"github.com/luki/envirosense/internal/web"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP dashboard instead of the terminal UI")
	snapshot := flag.String("snapshot", "", "fetch once and write chart PNGs to this directory, then exit")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "envirosense: %v\n", err)
		os.Exit(1)
	}

	src := feed.NewSource(cfg.SourceURL, cfg.SourceAuth, nil)

	switch {
	case *snapshot != "":
		if err := runSnapshot(cfg, src, *snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "envirosense: %v\n", err)
			os.Exit(1)
		}

	case *serve:
		log, logFile := logging.Init(cfg.LogDir, true)
		if logFile != nil {
			defer logFile.Close()
		}

		server := web.NewServer(chart.NewRenderer(0, 0), log)
		poller := &feed.Poller{
			Source:   src,
			Interval: cfg.Refresh,
			WindowN:  cfg.WindowSize,
			Log:      log,
			OnWindow: server.OnWindow,
		}
		go poller.Run(context.Background())

		if err := server.ListenAndServe(cfg.HTTPBind); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}

	default:
		log, logFile := logging.Init(cfg.LogDir, false)
		if logFile != nil {
			defer logFile.Close()
		}
		if err := dashboard.Run(cfg, src, log); err != nil {
			fmt.Fprintf(os.Stderr, "envirosense: %v\n", err)
			os.Exit(1)
		}
	}
}

// runSnapshot performs a single ingestion cycle and writes one chart per
// metric, exercising the pipeline headless.
func runSnapshot(cfg *config.Config, src *feed.Source, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Refresh)
	defer cancel()
	w, err := src.FetchWindow(ctx, cfg.WindowSize)
	if err != nil {
		return err
	}

	for _, m := range reading.Metrics() {
		png, err := chart.RenderPNG(m, w, 900, 360)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, string(m)+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d readings)\n", path, len(w))
	}
	return nil
}
