// Package sysmetrics samples CPU, memory and disk usage through gopsutil.
package sysmetrics

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// CPUMetrics holds aggregate CPU utilisation and load.
type CPUMetrics struct {
	// Total is the overall CPU usage percentage (0-100) since the previous
	// sample.
	Total float64 `json:"total"`

	// Count is the number of logical CPUs.
	Count int `json:"count"`

	Load1 float64 `json:"load1"`
}

// Ratio returns Total in [0,1].
func (m CPUMetrics) Ratio() float64 { return clamp(m.Total / 100) }

// MemoryMetrics holds physical memory statistics.
type MemoryMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// Ratio returns UsedPercent in [0,1].
func (m MemoryMetrics) Ratio() float64 { return clamp(m.UsedPercent / 100) }

// DiskMetrics holds usage data for a single mount point.
type DiskMetrics struct {
	Path        string  `json:"path"`
	FSType      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// Ratio returns UsedPercent in [0,1].
func (m DiskMetrics) Ratio() float64 { return clamp(m.UsedPercent / 100) }

// CPU samples utilisation over the interval since its previous call.
type CPU struct{}

// Name returns "cpu".
func (CPU) Name() string { return "cpu" }

// Collect reads the aggregate CPU percentage. A failing load average is
// not fatal; Load1 is left at zero.
func (CPU) Collect(ctx context.Context) (CPUMetrics, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return CPUMetrics{}, fmt.Errorf("cpu: %w", err)
	}
	var m CPUMetrics
	if len(total) > 0 {
		m.Total = total[0]
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		m.Count = n
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		m.Load1 = avg.Load1
	}
	return m, nil
}

// Memory samples physical memory usage.
type Memory struct{}

// Name returns "memory".
func (Memory) Name() string { return "memory" }

// Collect reads virtual memory statistics.
func (Memory) Collect(ctx context.Context) (MemoryMetrics, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryMetrics{}, fmt.Errorf("memory: %w", err)
	}
	return MemoryMetrics{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}

// Disk samples usage of the filesystem mounted at Path.
type Disk struct {
	Path string
}

// Name returns "disk:" plus the mount path.
func (d Disk) Name() string { return "disk:" + d.Path }

// Collect reads filesystem usage.
func (d Disk) Collect(ctx context.Context) (DiskMetrics, error) {
	path := d.Path
	if path == "" {
		path = "/"
	}
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskMetrics{}, fmt.Errorf("disk %s: %w", path, err)
	}
	return DiskMetrics{
		Path:        usage.Path,
		FSType:      usage.Fstype,
		Total:       usage.Total,
		Used:        usage.Used,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}

// HumanBytes formats n with a binary unit suffix, e.g. "3.2G".
func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}

func clamp(r float64) float64 {
	return min(max(r, 0), 1)
}
