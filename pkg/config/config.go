package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
)

// Config is the whole configuration file.
type Config struct {
	Bar      BarConfig      `toml:"bar" yaml:"bar"`
	Defaults WidgetDefaults `toml:"defaults" yaml:"defaults"`
	Widgets  []WidgetConfig `toml:"widgets" yaml:"widgets"`
	Tray     TrayConfig     `toml:"tray" yaml:"tray"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
}

// BarConfig is the [bar] section.
type BarConfig struct {
	Height       uint32   `toml:"height" yaml:"height"`
	Width        uint32   `toml:"width" yaml:"width"` // 0 = screen width
	XOffset      int32    `toml:"x_offset" yaml:"x_offset"`
	YOffset      int32    `toml:"y_offset" yaml:"y_offset"`
	Position     string   `toml:"position" yaml:"position"` // "top" or "bottom"
	Background   string   `toml:"background" yaml:"background"`
	Theme        string   `toml:"theme" yaml:"theme"`
	ThemeFile    string   `toml:"theme_file" yaml:"theme_file"`
	Preset       string   `toml:"preset" yaml:"preset"` // used when no [[widgets]] are given
	HookInterval Duration `toml:"hook_interval" yaml:"hook_interval"`
}

// WidgetDefaults is the [defaults] section, applied to every widget.
type WidgetDefaults struct {
	Font        string   `toml:"font" yaml:"font"`
	FontSize    float64  `toml:"font_size" yaml:"font_size"`
	Padding     uint32   `toml:"padding" yaml:"padding"`
	Foreground  string   `toml:"foreground" yaml:"foreground"`
	HideTimeout Duration `toml:"hide_timeout" yaml:"hide_timeout"`
}

// WidgetConfig is one [[widgets]] entry. Which options apply depends on
// Type; zero values fall back to the widget's own defaults.
type WidgetConfig struct {
	Type string `toml:"type" yaml:"type"`

	Text     string   `toml:"text" yaml:"text"`
	Format   string   `toml:"format" yaml:"format"`
	Interval Duration `toml:"interval" yaml:"interval"`
	Path     string   `toml:"path" yaml:"path"`
	Width    uint32   `toml:"width" yaml:"width"`
	Flex     bool     `toml:"flex" yaml:"flex"`

	// Per-widget overrides of [defaults].
	Font        string   `toml:"font" yaml:"font"`
	FontSize    float64  `toml:"font_size" yaml:"font_size"`
	Padding     *uint32  `toml:"padding" yaml:"padding"`
	Foreground  string   `toml:"foreground" yaml:"foreground"`
	HideTimeout Duration `toml:"hide_timeout" yaml:"hide_timeout"`

	// Battery and brightness.
	Device string  `toml:"device" yaml:"device"`
	Low    float64 `toml:"low" yaml:"low"`
	Notify bool    `toml:"notify" yaml:"notify"`

	// Active window.
	MaxChars int `toml:"max_chars" yaml:"max_chars"`
}

// TrayConfig is the [tray] section.
type TrayConfig struct {
	InternalPadding uint32 `toml:"internal_padding" yaml:"internal_padding"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // auto, text, json
	File   string `toml:"file" yaml:"file"`
}

// MetricsConfig is the [metrics] section.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Bar: BarConfig{
			Height:       21,
			Position:     "top",
			Theme:        "default",
			Preset:       "default",
			HookInterval: Duration{time.Second},
		},
		Defaults: WidgetDefaults{
			FontSize:    15,
			Padding:     10,
			HideTimeout: Duration{time.Second},
		},
		Tray: TrayConfig{
			InternalPadding: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9273",
		},
	}
}

// WidgetList returns the configured widgets, or the bar preset's when the
// file lists none.
func (c *Config) WidgetList() []WidgetConfig {
	if len(c.Widgets) > 0 {
		return c.Widgets
	}
	return Preset(c.Bar.Preset)
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Bar.Height < 2 {
		errs = append(errs, fmt.Errorf("bar.height must be at least 2, got %d", c.Bar.Height))
	}
	switch strings.ToLower(c.Bar.Position) {
	case "top", "bottom":
	default:
		errs = append(errs, fmt.Errorf("bar.position must be top or bottom, got %q", c.Bar.Position))
	}
	if c.Bar.Background != "" {
		if _, err := theme.ParseHex(c.Bar.Background); err != nil {
			errs = append(errs, fmt.Errorf("bar.background: %w", err))
		}
	}
	if c.Defaults.Foreground != "" {
		if _, err := theme.ParseHex(c.Defaults.Foreground); err != nil {
			errs = append(errs, fmt.Errorf("defaults.foreground: %w", err))
		}
	}
	if c.Defaults.FontSize < 0 {
		errs = append(errs, fmt.Errorf("defaults.font_size must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of auto, text, json", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr is required when metrics are enabled"))
	}
	for i, w := range c.Widgets {
		if w.Type == "" {
			errs = append(errs, fmt.Errorf("widgets[%d]: missing type", i))
		}
		if w.Foreground != "" {
			if _, err := theme.ParseHex(w.Foreground); err != nil {
				errs = append(errs, fmt.Errorf("widgets[%d].foreground: %w", i, err))
			}
		}
		if w.Low < 0 || w.Low > 1 {
			errs = append(errs, fmt.Errorf("widgets[%d].low must be within [0,1]", i))
		}
		if w.MaxChars < 0 {
			errs = append(errs, fmt.Errorf("widgets[%d].max_chars must not be negative", i))
		}
	}
	return errors.Join(errs...)
}
