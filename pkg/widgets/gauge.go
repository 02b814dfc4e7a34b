package widgets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors"
	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// Default formats. See NewCPU, NewMemory and NewDisk for the codes.
const (
	DefaultCPUFormat    = "CPU %p%"
	DefaultMemoryFormat = "MEM %p%"
	DefaultDiskFormat   = "%m %p%"
)

// Gauge shows one collector sample as text coloured by the theme's
// threshold levels.
type Gauge[T any] struct {
	*Text
	name     string
	coll     collectors.Collector[T]
	format   string
	codes    func(T) map[byte]string
	ratio    func(T) float64
	theme    theme.Theme
	interval time.Duration
	last     collectors.Sample[T]
}

// Update samples the collector. A failed sample is a widget error.
func (g *Gauge[T]) Update(ctx context.Context) error {
	s := collectors.Take(ctx, g.coll)
	if s.Err != nil {
		return fmt.Errorf("%s: %w", g.name, s.Err)
	}
	g.last = s
	g.SetText(expand(g.format, g.codes(s.Value)))
	g.SetColor(g.theme.Level(g.ratio(s.Value)))
	return nil
}

// Hook refreshes the gauge periodically.
func (g *Gauge[T]) Hook(ctx context.Context, sender hooks.Sender, pool *hooks.TimedHooks) error {
	subscribe(ctx, sender, pool, g.interval)
	return nil
}

// Last returns the most recent successful sample.
func (g *Gauge[T]) Last() collectors.Sample[T] { return g.last }

func (g *Gauge[T]) String() string { return g.name }

func percent(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }

// NewCPU creates a CPU gauge. Format codes: %p usage percent, %l 1-minute
// load average, %n logical CPU count.
func NewCPU(coll collectors.Collector[sysmetrics.CPUMetrics], format string, interval time.Duration, th theme.Theme, cfg widget.Config) *Gauge[sysmetrics.CPUMetrics] {
	if format == "" {
		format = DefaultCPUFormat
	}
	return &Gauge[sysmetrics.CPUMetrics]{
		Text:     NewText("", cfg),
		name:     "CPU",
		coll:     coll,
		format:   format,
		theme:    th,
		interval: interval,
		ratio:    sysmetrics.CPUMetrics.Ratio,
		codes: func(m sysmetrics.CPUMetrics) map[byte]string {
			return map[byte]string{
				'p': percent(m.Total),
				'l': strconv.FormatFloat(m.Load1, 'f', 2, 64),
				'n': strconv.Itoa(m.Count),
			}
		},
	}
}

// NewMemory creates a memory gauge. Format codes: %p used percent, %u
// used, %a available, %t total.
func NewMemory(coll collectors.Collector[sysmetrics.MemoryMetrics], format string, interval time.Duration, th theme.Theme, cfg widget.Config) *Gauge[sysmetrics.MemoryMetrics] {
	if format == "" {
		format = DefaultMemoryFormat
	}
	return &Gauge[sysmetrics.MemoryMetrics]{
		Text:     NewText("", cfg),
		name:     "Memory",
		coll:     coll,
		format:   format,
		theme:    th,
		interval: interval,
		ratio:    sysmetrics.MemoryMetrics.Ratio,
		codes: func(m sysmetrics.MemoryMetrics) map[byte]string {
			return map[byte]string{
				'p': percent(m.UsedPercent),
				'u': sysmetrics.HumanBytes(m.Used),
				'a': sysmetrics.HumanBytes(m.Available),
				't': sysmetrics.HumanBytes(m.Total),
			}
		},
	}
}

// NewDisk creates a disk gauge. Format codes: %p used percent, %u used,
// %f free, %t total, %m mount path.
func NewDisk(coll collectors.Collector[sysmetrics.DiskMetrics], format string, interval time.Duration, th theme.Theme, cfg widget.Config) *Gauge[sysmetrics.DiskMetrics] {
	if format == "" {
		format = DefaultDiskFormat
	}
	return &Gauge[sysmetrics.DiskMetrics]{
		Text:     NewText("", cfg),
		name:     "Disk",
		coll:     coll,
		format:   format,
		theme:    th,
		interval: interval,
		ratio:    sysmetrics.DiskMetrics.Ratio,
		codes: func(m sysmetrics.DiskMetrics) map[byte]string {
			return map[byte]string{
				'p': percent(m.UsedPercent),
				'u': sysmetrics.HumanBytes(m.Used),
				'f': sysmetrics.HumanBytes(m.Free),
				't': sysmetrics.HumanBytes(m.Total),
				'm': m.Path,
			}
		},
	}
}
