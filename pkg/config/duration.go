// Package config loads the bar's TOML or YAML configuration.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration read either from a Go duration string
// ("500ms", "30s", "1h") or from a bare integer number of seconds.
type Duration struct {
	time.Duration
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q not allowed", s)
	}
	return d, nil
}

func seconds(n int64) (time.Duration, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative duration %d not allowed", n)
	}
	return time.Duration(n) * time.Second, nil
}

// UnmarshalTOML takes a string or an integer.
func (d *Duration) UnmarshalTOML(v any) (err error) {
	switch v := v.(type) {
	case string:
		d.Duration, err = parseDuration(v)
	case int64:
		d.Duration, err = seconds(v)
	default:
		err = fmt.Errorf("duration must be a string or integer seconds, got %T", v)
	}
	return err
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = parseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML takes a string or an integer.
func (d *Duration) UnmarshalYAML(node *yaml.Node) (err error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		d.Duration, err = seconds(n)
		return err
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	d.Duration, err = parseDuration(s)
	return err
}
