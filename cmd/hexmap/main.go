package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"hexmap/internal/config"
	"hexmap/internal/export"
	"hexmap/internal/hexes"
	"hexmap/internal/logger"
	"hexmap/internal/overlay"
	"hexmap/internal/tui"
	"hexmap/internal/web"
)

const usage = `usage:
  hexmap [-config file] [dataset]                     terminal map
  hexmap export [-format geojson|kml] [-o file] dataset
  hexmap serve [-addr :8080] [dataset]                web map
`

func main() {
	// .env is optional
	_ = godotenv.Load(".env")

	args := os.Args[1:]
	run, viewer := runView, true
	if len(args) > 0 {
		switch args[0] {
		case "export":
			run, viewer, args = runExport, false, args[1:]
		case "serve":
			run, viewer, args = runServe, false, args[1:]
		case "help", "-h", "--help":
			fmt.Print(usage)
			return
		}
	}
	if err := run(args); err != nil {
		slog.Error("command_failed", "err", err)
		// the viewer logs to a file; say it on the terminal too
		if viewer {
			fmt.Fprintln(os.Stderr, "hexmap:", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads path, or HEXMAP_CONFIG when path is empty, then applies
// the environment on top.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("HEXMAP_CONFIG")
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func datasetArg(fs *flag.FlagSet, cfg *config.Config) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return cfg.Dataset
}

func runView(args []string) error {
	fs := flag.NewFlagSet("hexmap", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	// the terminal owns stdout, so logs go to a file
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	log := logger.Setup(f, cfg.Log.Level, cfg.Log.Format)

	r, err := newRenderer(cfg, log)
	if err != nil {
		return err
	}
	var m tea.Model
	if p := datasetArg(fs, cfg); p != "" {
		m = tui.NewWithPath(r, log, p)
	} else {
		m = tui.New(r, log)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file")
	format := fs.String("format", "geojson", "output format: geojson or kml")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	path := datasetArg(fs, cfg)
	if path == "" {
		return errors.New("export: dataset path required")
	}
	d, err := hexes.Load(path)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg, log)
	if err != nil {
		return err
	}

	var doc io.WriterTo
	switch strings.ToLower(*format) {
	case "geojson":
		g := export.NewGeoJSON()
		if err := r.Render(d, g); err != nil {
			return err
		}
		doc = g
	case "kml":
		k := export.NewKML(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err := r.Render(d, k); err != nil {
			return err
		}
		doc = k
	default:
		return fmt.Errorf("export: unknown format %q", *format)
	}

	var n int64
	if *out == "" {
		n, err = doc.WriteTo(os.Stdout)
	} else {
		var f *os.File
		if f, err = os.Create(*out); err != nil {
			return err
		}
		n, err = writeAndClose(doc, f)
	}
	if err != nil {
		return err
	}
	log.Info("export_done", "format", *format, "hexes", d.Len(), "bytes", n, "out", *out)
	return nil
}

// writeAndClose writes doc to w and closes it. A close error is returned
// too since buffered data may only fail to land on close.
func writeAndClose(doc io.WriterTo, w io.WriteCloser) (int64, error) {
	n, err := doc.WriteTo(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file")
	addr := fs.String("addr", "", "listen address (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	log := logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	path := datasetArg(fs, cfg)
	if path == "" {
		return errors.New("serve: dataset path required")
	}
	d, err := hexes.Load(path)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg, log)
	if err != nil {
		return err
	}
	srv, err := web.New(d, r, web.View{Center: cfg.Map.Center, Zoom: cfg.Map.Zoom}, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Server.Addr)
}

// newRenderer builds the overlay renderer from the style and count settings.
func newRenderer(cfg *config.Config, log *slog.Logger) (*overlay.Renderer, error) {
	st := overlay.DefaultStyle()
	stroke, err := overlay.ParseRGB(cfg.Style.StrokeColor)
	if err != nil {
		return nil, fmt.Errorf("style.stroke_color: %w", err)
	}
	st.StrokeColor = stroke
	st.Opacity = cfg.Style.Opacity
	st.StrokeWidth = cfg.Style.StrokeWidth
	switch s := overlay.StrokeStyle(strings.ToLower(cfg.Style.StrokeStyle)); s {
	case overlay.StrokeSolid, overlay.StrokeDash, overlay.StrokeShortDash:
		st.StrokeStyle = s
	default:
		return nil, fmt.Errorf("style.stroke_style: unknown %q", cfg.Style.StrokeStyle)
	}
	policy, err := overlay.ParseCountPolicy(cfg.Counts.Policy)
	if err != nil {
		return nil, err
	}
	return overlay.NewRenderer(
		overlay.WithStyle(st),
		overlay.WithCountPolicy(policy),
		overlay.WithLogger(log),
	), nil
}
