package theme

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlTheme is the on-disk form:
//
//	name = "mine"
//	[base]
//	background = "#101010"
//	...
//	[level]
//	ok = "#00ff00"
type tomlTheme struct {
	Name string `toml:"name"`
	Base struct {
		Background string `toml:"background"`
		Foreground string `toml:"foreground"`
		Dim        string `toml:"dim"`
		Accent     string `toml:"accent"`
	} `toml:"base"`
	Level struct {
		OK   string `toml:"ok"`
		Warn string `toml:"warn"`
		Crit string `toml:"crit"`
	} `toml:"level"`
}

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,
		OK:         tt.Level.OK,
		Warn:       tt.Level.Warn,
		Crit:       tt.Level.Crit,
	}
	if err := Validate(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a theme file and registers it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := Register(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Validate checks that every field is present and every colour parses.
func Validate(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	fields := []struct {
		name, value string
	}{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"ok", t.OK},
		{"warn", t.Warn},
		{"crit", t.Crit},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("theme %s: missing required field %q", t.Name, f.name)
		}
		if _, err := ParseHex(f.value); err != nil {
			return fmt.Errorf("theme %s: field %q: %w", t.Name, f.name, err)
		}
	}
	return nil
}
