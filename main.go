// statusbar is a status bar for X11 window managers.
//
// It docks a window along the top or bottom screen edge, draws a row of
// widgets into it and hosts an XEmbed system tray.
//
// Usage:
//
//	statusbar [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: $XDG_CONFIG_HOME/statusbar/config.toml)
//	-preview          Render one frame to the terminal instead of opening a window
//	-protocol string  Image protocol for -preview (auto|kitty|iterm2|sixel|halfblocks)
//	-snapshot string  Render one frame to a PNG file instead of opening a window
//	-width int        Frame width for -preview/-snapshot (default: bar.width or 1280)
//	-themes           List available themes and exit
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"gitlab.com/tinyland/lab/statusbar/pkg/app"
	"gitlab.com/tinyland/lab/statusbar/pkg/config"
	"gitlab.com/tinyland/lab/statusbar/pkg/instance"
	"gitlab.com/tinyland/lab/statusbar/pkg/metrics"
	"gitlab.com/tinyland/lab/statusbar/pkg/notify"
	"gitlab.com/tinyland/lab/statusbar/pkg/preview"
	"gitlab.com/tinyland/lab/statusbar/pkg/terminal"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
	"gitlab.com/tinyland/lab/statusbar/pkg/widgets"
	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// previewSettle is how long headless runs let hooks fire before the frame
// is captured.
const previewSettle = 1500 * time.Millisecond

// defaultPreviewWidth is the headless frame width when bar.width is unset.
const defaultPreviewWidth = 1280

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file")
		runPreview   = flag.Bool("preview", false, "Render one frame to the terminal instead of opening a window")
		protocol     = flag.String("protocol", "auto", "Image protocol for -preview (auto|kitty|iterm2|sixel|halfblocks)")
		snapshotPath = flag.String("snapshot", "", "Render one frame to a PNG file instead of opening a window")
		frameWidth   = flag.Int("width", 0, "Frame width for -preview/-snapshot (0 = bar.width or 1280)")
		listThemes   = flag.Bool("themes", false, "List available themes and exit")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("statusbar %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}
	if *listThemes {
		fmt.Println(strings.Join(theme.Names(), "\n"))
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Log, *verbose, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	th, err := resolveTheme(cfg.Bar)
	if err != nil {
		logger.Error("loading theme", "err", err)
		os.Exit(1)
	}

	headless := *runPreview || *snapshotPath != ""
	if headless {
		opts := headlessOptions{
			width:    *frameWidth,
			snapshot: *snapshotPath,
			preview:  *runPreview,
			protocol: *protocol,
		}
		if err := runHeadless(cfg, th, opts, logger); err != nil {
			logger.Error("headless render failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, th, logger); err != nil {
		logger.Error("statusbar exited", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// newLogger builds the process logger: text on a terminal, JSON otherwise,
// unless log.format forces one. log.file, when set, receives a copy.
func newLogger(lc config.LogConfig, verbose bool, stderr *os.File) (*slog.Logger, func(), error) {
	level := parseLevel(lc.Level)
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = stderr
	closer := func() {}
	if lc.File != "" {
		if err := ensureLogDir(lc.File); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(stderr, f)
		closer = func() { f.Close() }
	}

	format := lc.Format
	if format == "" || format == "auto" {
		format = "json"
		if isatty.IsTerminal(stderr.Fd()) {
			format = "text"
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), closer, nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), closer, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureLogDir(logFile string) error {
	return os.MkdirAll(filepath.Dir(logFile), 0o755)
}

// resolveTheme registers bar.theme_file, if any, and returns the theme the
// bar should use. A theme file wins over bar.theme.
func resolveTheme(bc config.BarConfig) (theme.Theme, error) {
	if bc.ThemeFile != "" {
		return theme.LoadFile(bc.ThemeFile)
	}
	return theme.Get(bc.Theme), nil
}

// background is bar.background when set, otherwise the theme's.
func background(bc config.BarConfig, th theme.Theme) color.RGBA {
	if bc.Background != "" {
		if c, err := theme.ParseHex(bc.Background); err == nil {
			return c
		}
	}
	return th.BackgroundColor()
}

// barY is the window's y coordinate for the configured edge.
func barY(pos widget.Position, screenHeight, height uint32, yOffset int32) int16 {
	if pos == widget.Bottom {
		return int16(int32(screenHeight) - int32(height) - yOffset)
	}
	return int16(yOffset)
}

// xOpener opens the X connection and creates the dock window.
func xOpener(log *slog.Logger) app.Opener {
	return func(g app.Geometry) (app.Display, error) {
		conn, err := xconn.Open(log)
		if err != nil {
			return nil, err
		}
		bar, err := conn.CreateBar(xconn.BarOptions{
			X:      int16(g.XOffset),
			Y:      barY(g.Position, conn.ScreenHeight(), g.Height, g.YOffset),
			Width:  uint16(g.Width),
			Height: uint16(g.Height),
			Title:  "statusbar",
		})
		if err != nil {
			conn.Close()
			return nil, err
		}
		return bar, nil
	}
}

// builder configures everything but the display and widgets.
func builder(cfg *config.Config, th theme.Theme, log *slog.Logger) *app.Builder {
	return app.New().
		Height(cfg.Bar.Height).
		Width(cfg.Bar.Width).
		Offset(cfg.Bar.XOffset, cfg.Bar.YOffset).
		Position(widget.ParsePosition(cfg.Bar.Position)).
		Background(background(cfg.Bar, th)).
		HookInterval(cfg.Bar.HookInterval.Duration).
		Logger(log)
}

// run drives the bar on X until a signal arrives or the display dies.
func run(cfg *config.Config, th theme.Theme, log *slog.Logger) error {
	pidPath := instance.Path(os.Getenv("DISPLAY"))
	if err := instance.Acquire(pidPath); err != nil {
		return err
	}
	defer instance.Release(pidPath)

	rec := metrics.NewRecorder()

	var notifier notify.Notifier = notify.Nop{}
	if dn, err := notify.Connect("statusbar"); err != nil {
		log.Info("desktop notifications unavailable", "err", err)
	} else {
		defer dn.Close()
		notifier = dn
	}

	ws, err := widgets.FromConfig(cfg.WidgetList(), cfg.Defaults, widgets.Deps{
		Theme:    th,
		Logger:   log,
		Notifier: notifier,
		Tray:     widgets.OpenTray(cfg.Tray.InternalPadding, log, rec),
		Window:   widgets.OpenWindow(log),
	})
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigs)

	b := builder(cfg, th, log).
		Open(xOpener(log)).
		Widgets(ws...).
		Metrics(rec).
		Signals(sigs)
	var bar *app.Bar
	if cfg.Metrics.Enabled {
		b.Service(metrics.NewServer(cfg.Metrics.Addr, rec, log).WithHealth(func() string {
			return bar.State().String()
		}))
	}

	bar, err = b.Build()
	if err != nil {
		return err
	}
	runErr := bar.Start(context.Background())
	if err := bar.Shutdown(); err != nil {
		log.Warn("shutdown", "err", err)
	}
	return runErr
}

type headlessOptions struct {
	width    int
	snapshot string
	preview  bool
	protocol string
}

// runHeadless renders the bar into memory for previewSettle and then
// writes the last frame to the terminal and/or a PNG.
func runHeadless(cfg *config.Config, th theme.Theme, opts headlessOptions, log *slog.Logger) error {
	width := uint32(opts.width)
	if width == 0 {
		width = cfg.Bar.Width
	}
	if width == 0 {
		width = defaultPreviewWidth
	}

	// No tray, window title or notifications: they need a desktop session.
	ws, err := widgets.FromConfig(cfg.WidgetList(), cfg.Defaults, widgets.Deps{
		Theme:    th,
		Logger:   log,
		Notifier: notify.Nop{},
	})
	if err != nil {
		return err
	}

	display := app.NewHeadless(width, cfg.Bar.Height)
	bar, err := builder(cfg, th, log).Display(display).Widgets(ws...).Build()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), previewSettle)
	defer cancel()
	startErr := bar.Start(ctx)
	shutErr := bar.Shutdown()
	if err := errors.Join(startErr, shutErr); err != nil {
		return err
	}

	frame := display.Frame()
	if opts.snapshot != "" {
		if err := preview.WritePNG(opts.snapshot, frame); err != nil {
			return err
		}
		log.Info("snapshot written", "path", opts.snapshot, "width", width, "height", cfg.Bar.Height)
	}
	if opts.preview {
		caps := terminal.Inspect(os.Stdout.Fd(), forcedProtocol(opts.protocol))
		log.Debug("terminal detected", "term", caps.Term.String(), "protocol", caps.Protocol.String(), "cols", caps.Size.Cols)
		return preview.Write(os.Stdout, frame, preview.Options{
			Protocol:  caps.Protocol,
			Cols:      caps.Size.Cols,
			TrueColor: caps.TrueColor,
		})
	}
	return nil
}

// forcedProtocol maps "auto" to no override.
func forcedProtocol(s string) string {
	if strings.EqualFold(s, "auto") {
		return ""
	}
	return s
}
