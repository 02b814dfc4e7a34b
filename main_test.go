package main

import (
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/statusbar/pkg/config"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Geometry ---

func TestBarY(t *testing.T) {
	tests := []struct {
		pos     widget.Position
		screen  uint32
		height  uint32
		yOffset int32
		want    int16
	}{
		{widget.Top, 1080, 21, 0, 0},
		{widget.Top, 1080, 21, 5, 5},
		{widget.Bottom, 1080, 21, 0, 1059},
		{widget.Bottom, 1080, 21, 4, 1055},
	}
	for _, tt := range tests {
		if got := barY(tt.pos, tt.screen, tt.height, tt.yOffset); got != tt.want {
			t.Errorf("barY(%v, %d, %d, %d) = %d, want %d", tt.pos, tt.screen, tt.height, tt.yOffset, got, tt.want)
		}
	}
}

func TestBackground(t *testing.T) {
	th := theme.Get("nord")
	if got := background(config.BarConfig{}, th); got != th.BackgroundColor() {
		t.Errorf("empty background = %v, want theme's %v", got, th.BackgroundColor())
	}
	want := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	if got := background(config.BarConfig{Background: "#123456"}, th); got != want {
		t.Errorf("configured background = %v, want %v", got, want)
	}
}

// --- Logging ---

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerJSONWhenNotATerminal(t *testing.T) {
	dir := t.TempDir()
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	if err != nil {
		t.Fatal(err)
	}
	defer stderr.Close()
	logPath := filepath.Join(dir, "logs", "bar.log")

	log, closeLog, err := newLogger(config.LogConfig{Level: "info", Format: "auto", File: logPath}, false, stderr)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	log.Info("hello", "widget", "Clock")
	closeLog()

	for _, path := range []string{stderr.Name(), logPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)
		if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"widget":"Clock"`) {
			t.Errorf("%s: expected JSON record, got %q", filepath.Base(path), out)
		}
		if strings.Contains(out, "hidden") {
			t.Errorf("%s: debug record leaked at info level", filepath.Base(path))
		}
	}
}

func TestNewLoggerForcedTextVerbose(t *testing.T) {
	stderr, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	if err != nil {
		t.Fatal(err)
	}
	defer stderr.Close()

	log, closeLog, err := newLogger(config.LogConfig{Format: "text"}, true, stderr)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	log.Debug("shown")

	data, _ := os.ReadFile(stderr.Name())
	if !strings.Contains(string(data), "msg=shown") {
		t.Errorf("expected text debug record, got %q", data)
	}
}

// --- Themes ---

func TestResolveThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	data := `name = "main-test-theme"
[base]
background = "#101010"
foreground = "#eeeeee"
dim = "#777777"
accent = "#ff00ff"
[level]
ok = "#00ff00"
warn = "#ffff00"
crit = "#ff0000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := resolveTheme(config.BarConfig{Theme: "nord", ThemeFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "main-test-theme" {
		t.Errorf("theme = %q, want the file's", th.Name)
	}
	if _, ok := theme.Lookup("main-test-theme"); !ok {
		t.Error("theme file was not registered")
	}

	if _, err := resolveTheme(config.BarConfig{ThemeFile: filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Error("missing theme file should fail")
	}
	if got, _ := resolveTheme(config.BarConfig{Theme: "no-such-theme"}); got.Name != theme.Default().Name {
		t.Errorf("unknown theme = %q, want default", got.Name)
	}
}

// --- Headless ---

func TestRunHeadlessSnapshot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bar.Background = "#203040"
	cfg.Widgets = []config.WidgetConfig{
		{Type: "text", Text: "hello"},
		{Type: "spacer", Flex: true},
		{Type: "text", Text: "world"},
	}
	path := filepath.Join(t.TempDir(), "bar.png")

	err := runHeadless(cfg, theme.Default(), headlessOptions{width: 300, snapshot: path}, discard())
	if err != nil {
		t.Fatalf("runHeadless: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != int(cfg.Bar.Height) {
		t.Errorf("snapshot is %dx%d, want 300x%d", b.Dx(), b.Dy(), cfg.Bar.Height)
	}
	// The flex spacer leaves the middle of the bar as plain background.
	r, g, b, _ := img.At(150, 2).RGBA()
	if r>>8 != 0x20 || g>>8 != 0x30 || b>>8 != 0x40 {
		t.Errorf("middle pixel = #%02x%02x%02x, want #203040", r>>8, g>>8, b>>8)
	}
}

func TestRunHeadlessRejectsBadWidgets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Widgets = []config.WidgetConfig{{Type: "nope"}}
	err := runHeadless(cfg, theme.Default(), headlessOptions{snapshot: filepath.Join(t.TempDir(), "x.png")}, discard())
	if err == nil || !strings.Contains(err.Error(), "unknown widget type") {
		t.Errorf("err = %v", err)
	}
}

func TestForcedProtocol(t *testing.T) {
	if forcedProtocol("AUTO") != "" || forcedProtocol("sixel") != "sixel" {
		t.Error("forcedProtocol mapping wrong")
	}
}
