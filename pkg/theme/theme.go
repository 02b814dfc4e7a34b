// Package theme holds the bar's colour palettes.
package theme

import (
	"image/color"
	"sort"
	"strings"
	"sync"
)

// Theme is a named palette. Colours are hex strings so palettes can be
// written by hand in TOML.
type Theme struct {
	Name string

	Background string
	Foreground string
	Dim        string
	Accent     string

	// Threshold colours for gauges such as CPU or battery.
	OK   string
	Warn string
	Crit string
}

// Ratio thresholds used by Level.
const (
	WarnRatio = 0.7
	CritRatio = 0.9
)

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	registerBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return Default()
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds t under its lowercase name, replacing any theme of the
// same name. The theme is validated first.
func Register(t Theme) error {
	if err := Validate(t); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
	return nil
}

// BackgroundColor returns the parsed background.
func (t Theme) BackgroundColor() color.RGBA { return rgba(t.Background) }

// ForegroundColor returns the parsed foreground.
func (t Theme) ForegroundColor() color.RGBA { return rgba(t.Foreground) }

// DimColor returns the parsed dim colour.
func (t Theme) DimColor() color.RGBA { return rgba(t.Dim) }

// AccentColor returns the parsed accent.
func (t Theme) AccentColor() color.RGBA { return rgba(t.Accent) }

// Level picks the threshold colour for a usage ratio in [0,1]:
// >= CritRatio is Crit, >= WarnRatio is Warn, anything else OK.
func (t Theme) Level(ratio float64) color.RGBA {
	switch {
	case ratio >= CritRatio:
		return rgba(t.Crit)
	case ratio >= WarnRatio:
		return rgba(t.Warn)
	default:
		return rgba(t.OK)
	}
}

// rgba parses a colour that has already been validated. Anything
// unparseable renders white.
func rgba(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}
