// Package battery reads battery charge from the Linux power_supply class
// in sysfs.
package battery

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

// DefaultRoot is where the kernel exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

// ErrNoBattery is returned when no battery device can be found.
var ErrNoBattery = errors.New("battery: no battery found")

// State is the charging state reported by the kernel.
type State string

const (
	Unknown     State = "Unknown"
	Charging    State = "Charging"
	Discharging State = "Discharging"
	NotCharging State = "Not charging"
	Full        State = "Full"
)

// Status is one battery reading.
type Status struct {
	Device string
	// Charge is the remaining capacity in [0,1].
	Charge float64
	State  State
}

// Percent returns Charge as a whole percentage.
func (s Status) Percent() int { return int(s.Charge*100 + 0.5) }

// Collector reads one battery. A zero Collector reads the first battery
// under DefaultRoot.
type Collector struct {
	Root   string
	Device string
}

// Name returns "battery".
func (c Collector) Name() string { return "battery" }

// Collect reads the device's capacity and status files. Devices without a
// capacity file fall back to energy_now/energy_full or charge_now/charge_full.
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
		if dev, err = findBattery(root); err != nil {
			return Status{}, err
		}
	}
	dir := filepath.Join(root, dev)

	charge, err := readCharge(dir)
	if err != nil {
		return Status{}, fmt.Errorf("battery %s: %w", dev, err)
	}
	st := Unknown
	if s, err := readString(filepath.Join(dir, "status")); err == nil && s != "" {
		st = State(s)
	}
	return Status{Device: dev, Charge: charge, State: st}, nil
}

func findBattery(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoBattery
		}
		return "", fmt.Errorf("battery: %w", err)
	}
	var names []string
	for _, e := range entries {
		typ, err := readString(filepath.Join(root, e.Name(), "type"))
		if err == nil && typ == "Battery" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoBattery
	}
	sort.Strings(names)
	return names[0], nil
}

func readCharge(dir string) (float64, error) {
	if pct, err := readInt(filepath.Join(dir, "capacity")); err == nil {
		return clamp(float64(pct) / 100), nil
	}
	for _, prefix := range []string{"energy", "charge"} {
		now, err1 := readInt(filepath.Join(dir, prefix+"_now"))
		full, err2 := readInt(filepath.Join(dir, prefix+"_full"))
		if err1 == nil && err2 == nil && full > 0 {
			return clamp(float64(now) / float64(full)), nil
		}
	}
	return 0, errors.New("no capacity information")
}

func readString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func readInt(path string) (int64, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func clamp(r float64) float64 {
	return min(max(r, 0), 1)
}
