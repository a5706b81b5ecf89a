package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/haal01/drawing-board/internal/canvas"
	"github.com/haal01/drawing-board/internal/config"
	"github.com/haal01/drawing-board/internal/discovery"
	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/transport"
	"github.com/haal01/drawing-board/internal/viewport"
)

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	flags := pflag.NewFlagSet("drawclient", pflag.ExitOnError)
	flags.String("url", "ws://localhost:8080/ws", "relay websocket endpoint")
	flags.String("room", "", "room to join")
	flags.Bool("discover", false, "find a relay on the local network over mDNS")
	flags.String("color", "#000", "line color")
	flags.Float64("line-width", 5, "line width")
	flags.String("log-level", "info", "debug, info, warn or error")
	strokes := flags.StringArray("stroke", nil, `stroke to draw once connected, as "x,y x,y ..." (repeatable)`)
	snapshot := flags.String("snapshot", "", "write the locally rendered canvas to this PNG on exit")
	duration := flags.Duration("duration", 0, "disconnect after this long (0 waits for a signal)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	scripted := make([][]stroke.Point, 0, len(*strokes))
	for _, s := range *strokes {
		pts, err := parsePoints(s)
		if err != nil {
			return err
		}
		scripted = append(scripted, pts)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, *duration)
		defer stop()
	}

	endpoint := cfg.Client.URL
	if cfg.Client.Discover {
		addr, err := discovery.Lookup(ctx, 3*time.Second)
		if err != nil {
			return fmt.Errorf("discover relay: %w", err)
		}
		endpoint = "ws://" + addr + "/ws"
	}
	endpoint, err = roomURL(endpoint, cfg.Client.Room)
	if err != nil {
		return err
	}

	raster, err := render.NewRaster(cfg.Client.Width, cfg.Client.Height, viewport.Identity)
	if err != nil {
		return err
	}

	tr, err := transport.Dial(ctx, endpoint, logger)
	if err != nil {
		return err
	}
	defer tr.Close()
	logger.Info("connected", "url", endpoint)

	session, err := canvas.New(canvas.Config{
		Transport: tr,
		Sink:      raster,
		Style:     stroke.Style{LineColor: cfg.Client.LineColor, LineWidth: cfg.Client.LineWidth},
		OnRemoteStrokeReceived: func(s stroke.Stroke) {
			logger.Info("remote stroke", "points", len(s.Points), "color", s.Style.LineColor, "width", s.Style.LineWidth)
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = session.Run(runCtx)
	}()

	for _, pts := range scripted {
		if err := replay(session, pts); err != nil {
			logger.Warn("scripted stroke failed", "err", err)
		}
	}

	select {
	case <-ctx.Done():
	case <-tr.Done():
		logger.Warn("relay went away")
	}
	stopRun()
	wg.Wait()

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, raster); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", *snapshot)
	}
	return nil
}

func replay(s *canvas.Session, pts []stroke.Point) error {
	if err := s.PointerDown(pts[0].X, pts[0].Y); err != nil {
		return err
	}
	for _, p := range pts[1:] {
		if err := s.PointerMove(p.X, p.Y); err != nil {
			return err
		}
	}
	return s.PointerUp()
}

// parsePoints reads "x,y x,y ..." into raw pointer samples.
func parsePoints(s string) ([]stroke.Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("stroke %q has no points", s)
	}
	pts := make([]stroke.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		pts = append(pts, stroke.Point{X: x, Y: y})
	}
	return pts, nil
}

// roomURL appends room as the last path segment of base.
func roomURL(base, room string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("relay url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("relay url %q: scheme must be ws or wss", base)
	}
	if room != "" {
		u = u.JoinPath(room)
	}
	return u.String(), nil
}

func writeSnapshot(path string, r *render.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	if err := r.WritePNG(f); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
