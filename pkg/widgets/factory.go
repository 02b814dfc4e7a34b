package widgets

import (
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/backlight"
	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/battery"
	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/statusbar/pkg/config"
	"gitlab.com/tinyland/lab/statusbar/pkg/notify"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/systray"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

// TrayFunc builds a system tray widget.
type TrayFunc func(cfg widget.Config) (widget.Widget, error)

// WindowFunc opens the X connection an active window widget reads from.
type WindowFunc func() (WindowConn, error)

// Deps carries what FromConfig needs beyond the widget list.
type Deps struct {
	Theme    theme.Theme
	Logger   *slog.Logger
	Notifier notify.Notifier
	// Tray builds "systray" entries. Nil skips them.
	Tray TrayFunc
	// Window opens connections for "window" entries. Nil skips them.
	Window WindowFunc
	// BatteryRoot overrides the sysfs power_supply directory.
	BatteryRoot string
	// BacklightRoot overrides the sysfs backlight directory.
	BacklightRoot string
}

// Types lists the widget types FromConfig understands.
func Types() []string {
	return []string{"battery", "brightness", "clock", "cpu", "disk", "icon", "memory", "spacer", "systray", "text", "window"}
}

// FromConfig builds widgets in list order.
func FromConfig(list []config.WidgetConfig, defaults config.WidgetDefaults, deps Deps) ([]widget.Widget, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Theme.Name == "" {
		deps.Theme = theme.Default()
	}
	out := make([]widget.Widget, 0, len(list))
	for i, wc := range list {
		cfg, err := WidgetConfig(defaults, wc, deps.Theme)
		if err != nil {
			return nil, fmt.Errorf("widgets[%d] (%s): %w", i, wc.Type, err)
		}
		w, err := build(wc, cfg, deps)
		if err != nil {
			return nil, fmt.Errorf("widgets[%d] (%s): %w", i, wc.Type, err)
		}
		if w == nil {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func build(wc config.WidgetConfig, cfg widget.Config, deps Deps) (widget.Widget, error) {
	th := deps.Theme
	switch strings.ToLower(wc.Type) {
	case "text":
		return NewText(wc.Text, cfg), nil
	case "clock":
		return NewClock(wc.Format, wc.Interval.Duration, cfg), nil
	case "spacer":
		if wc.Flex {
			return NewFlexSpacer(), nil
		}
		return NewSpacer(wc.Width), nil
	case "icon":
		if wc.Path == "" {
			return nil, fmt.Errorf("icon needs a path")
		}
		return NewIcon(wc.Path, wc.Width, cfg), nil
	case "cpu":
		return NewCPU(sysmetrics.CPU{}, wc.Format, wc.Interval.Duration, th, cfg), nil
	case "memory":
		return NewMemory(sysmetrics.Memory{}, wc.Format, wc.Interval.Duration, th, cfg), nil
	case "disk":
		return NewDisk(sysmetrics.Disk{Path: wc.Path}, wc.Format, wc.Interval.Duration, th, cfg), nil
	case "battery":
		n := deps.Notifier
		if !wc.Notify {
			n = notify.Nop{}
		}
		return NewBattery(battery.Collector{Root: deps.BatteryRoot, Device: wc.Device}, BatteryOptions{
			Format:   wc.Format,
			Interval: wc.Interval.Duration,
			Low:      wc.Low,
			Notifier: n,
			Logger:   deps.Logger,
		}, th, cfg), nil
	case "brightness":
		return NewBrightness(backlight.Collector{Root: deps.BacklightRoot, Device: wc.Device}, wc.Format, wc.Interval.Duration, cfg), nil
	case "window", "active_window":
		if deps.Window == nil {
			deps.Logger.Info("no X display, skipping active window widget")
			return nil, nil
		}
		conn, err := deps.Window()
		if err != nil {
			return nil, fmt.Errorf("active window: %w", err)
		}
		return NewActiveWindow(conn, wc.MaxChars, cfg, deps.Logger), nil
	case "systray":
		if deps.Tray == nil {
			deps.Logger.Info("system tray disabled, skipping widget")
			return nil, nil
		}
		return deps.Tray(cfg)
	default:
		return nil, fmt.Errorf("unknown widget type %q (known: %s)", wc.Type, strings.Join(Types(), ", "))
	}
}

// WidgetConfig merges [defaults] and a widget's own overrides. The
// foreground falls back to the theme's.
func WidgetConfig(d config.WidgetDefaults, wc config.WidgetConfig, th theme.Theme) (widget.Config, error) {
	cfg := widget.DefaultConfig()
	cfg.FgColor = th.ForegroundColor()
	if d.Font != "" {
		cfg.Font = d.Font
	}
	if d.FontSize > 0 {
		cfg.FontSize = d.FontSize
	}
	cfg.Padding = d.Padding
	if d.HideTimeout.Duration > 0 {
		cfg.HideTimeout = d.HideTimeout.Duration
	}
	if d.Foreground != "" {
		c, err := theme.ParseHex(d.Foreground)
		if err != nil {
			return widget.Config{}, err
		}
		cfg.FgColor = c
	}

	if wc.Font != "" {
		cfg.Font = wc.Font
	}
	if wc.FontSize > 0 {
		cfg.FontSize = wc.FontSize
	}
	if wc.Padding != nil {
		cfg.Padding = *wc.Padding
	}
	if wc.HideTimeout.Duration > 0 {
		cfg.HideTimeout = wc.HideTimeout.Duration
	}
	if wc.Foreground != "" {
		c, err := theme.ParseHex(wc.Foreground)
		if err != nil {
			return widget.Config{}, err
		}
		cfg.FgColor = c
	}
	cfg.Flex = wc.Flex
	if cfg.Font == "" {
		cfg.Font = render.DefaultFont
	}
	return cfg, nil
}

// OpenTray returns a TrayFunc that gives each tray its own X connection,
// so tray traffic never interleaves with bar drawing.
func OpenTray(internalPadding uint32, log *slog.Logger, rec systray.IconRecorder) TrayFunc {
	return func(cfg widget.Config) (widget.Widget, error) {
		conn, err := xconn.Open(log)
		if err != nil {
			return nil, fmt.Errorf("systray: %w", err)
		}
		opts := []systray.Option{
			systray.WithLogger(log),
			systray.WithInternalPadding(internalPadding),
		}
		if rec != nil {
			opts = append(opts, systray.WithRecorder(rec))
		}
		return systray.New(conn, cfg, opts...), nil
	}
}

// OpenWindow returns a WindowFunc that gives each active window widget its
// own X connection, since the widget consumes the connection's events.
func OpenWindow(log *slog.Logger) WindowFunc {
	return func() (WindowConn, error) {
		return xconn.Open(log)
	}
}
