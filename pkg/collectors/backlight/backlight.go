// Package backlight reads screen brightness from the Linux backlight class
// in sysfs.
package backlight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultRoot is where the kernel exposes backlight devices.
const DefaultRoot = "/sys/class/backlight"

// ErrNoBacklight is returned when no backlight device can be found.
var ErrNoBacklight = errors.New("backlight: no backlight device found")

// Status is one brightness reading.
type Status struct {
	Device string
	// Level is the brightness in [0,1].
	Level float64
}

// Percent returns Level as a whole percentage.
func (s Status) Percent() int { return int(s.Level*100 + 0.5) }

// Collector reads one backlight device. A zero Collector reads the first
// device under DefaultRoot.
type Collector struct {
	Root   string
	Device string
}

// Name returns "backlight".
func (c Collector) Name() string { return "backlight" }

// Collect reads brightness and max_brightness.
func (c Collector) Collect(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	root := c.Root
	if root == "" {
		root = DefaultRoot
	}
	dev := c.Device
	if dev == "" {
		var err error
		if dev, err = findDevice(root); err != nil {
			return Status{}, err
		}
	}
	dir := filepath.Join(root, dev)

	cur, err := readInt(filepath.Join(dir, "brightness"))
	if err != nil {
		return Status{}, fmt.Errorf("backlight %s: %w", dev, err)
	}
	maxLevel, err := readInt(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return Status{}, fmt.Errorf("backlight %s: %w", dev, err)
	}
	if maxLevel <= 0 {
		return Status{}, fmt.Errorf("backlight %s: max_brightness is %d", dev, maxLevel)
	}
	level := min(max(float64(cur)/float64(maxLevel), 0), 1)
	return Status{Device: dev, Level: level}, nil
}

func findDevice(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoBacklight
		}
		return "", fmt.Errorf("backlight: %w", err)
	}
	var names []string
	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(root, e.Name(), "max_brightness")); err == nil {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoBacklight
	}
	sort.Strings(names)
	return names[0], nil
}

func readInt(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
}
