package widgets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors"
	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/battery"
	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/notify"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

const (
	// DefaultBatteryFormat shows the state marker and charge.
	DefaultBatteryFormat = "BAT %i%c%"
	// DefaultBatteryInterval is how often the battery is polled.
	DefaultBatteryInterval = 30 * time.Second
	// DefaultLowBattery is the first warning threshold.
	DefaultLowBattery = 0.20
	// CriticalBattery is the second, urgent warning threshold.
	CriticalBattery = 0.05
)

// lowBatteryWarner decides when to warn. Each threshold fires once per
// discharge; plugging in re-arms both.
type lowBatteryWarner struct {
	low            float64
	warnedLow      bool
	warnedCritical bool
}

func (w *lowBatteryWarner) shouldWarn(charge float64, charging bool) bool {
	if charging {
		w.warnedLow, w.warnedCritical = false, false
		return false
	}
	if charge < w.low && !w.warnedLow {
		w.warnedLow = true
		return true
	}
	if charge < CriticalBattery && !w.warnedCritical {
		w.warnedCritical = true
		return true
	}
	return false
}

// Battery shows charge and charging state, polled on its own timer, and
// posts a desktop notification when the charge runs low.
type Battery struct {
	*Text
	coll     collectors.Collector[battery.Status]
	format   string
	interval time.Duration
	theme    theme.Theme
	notifier notify.Notifier
	warner   lowBatteryWarner
	log      *slog.Logger
	last     battery.Status
}

// BatteryOptions configures NewBattery. Zero values pick the defaults.
type BatteryOptions struct {
	Format   string
	Interval time.Duration
	// Low is the warning threshold in [0,1].
	Low      float64
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// NewBattery creates a battery widget. Format codes: %c charge percent,
// %i state marker ("+" charging, "=" full, "" otherwise), %s state name.
func NewBattery(coll collectors.Collector[battery.Status], opts BatteryOptions, th theme.Theme, cfg widget.Config) *Battery {
	if opts.Format == "" {
		opts.Format = DefaultBatteryFormat
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultBatteryInterval
	}
	if opts.Low <= 0 {
		opts.Low = DefaultLowBattery
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Battery{
		Text:     NewText("", cfg),
		coll:     coll,
		format:   opts.Format,
		interval: opts.Interval,
		theme:    th,
		notifier: opts.Notifier,
		warner:   lowBatteryWarner{low: opts.Low},
		log:      opts.Logger,
	}
}

// Setup checks that a battery can be read at all.
func (b *Battery) Setup(ctx context.Context, _ *widget.Info) error {
	if _, err := b.coll.Collect(ctx); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	return nil
}

// Update reads the battery and warns when it runs low.
func (b *Battery) Update(ctx context.Context) error {
	st, err := b.coll.Collect(ctx)
	if err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	b.last = st

	charging := st.State == battery.Charging
	if b.warner.shouldWarn(st.Charge, charging) {
		b.warn(ctx, st)
	}

	b.SetText(expand(b.format, map[byte]string{
		'c': fmt.Sprint(st.Percent()),
		'i': marker(st.State),
		's': string(st.State),
	}))
	if charging || st.State == battery.Full {
		b.SetColor(b.theme.Level(0))
	} else {
		b.SetColor(b.theme.Level(1 - st.Charge))
	}
	return nil
}

// warn posts the notification. Delivery failures are only logged.
func (b *Battery) warn(ctx context.Context, st battery.Status) {
	n := notify.Notification{
		Summary: "Low battery",
		Body:    fmt.Sprintf("Battery is low: %d%% left", st.Percent()),
		Icon:    "battery-caution",
		Urgency: notify.Normal,
	}
	if st.Charge < CriticalBattery {
		n.Urgency = notify.Critical
	}
	if err := b.notifier.Notify(ctx, n); err != nil {
		b.log.Warn("battery notification failed", "err", err)
	}
}

// Hook starts the battery poller.
func (b *Battery) Hook(ctx context.Context, sender hooks.Sender, _ *hooks.TimedHooks) error {
	go poll(ctx, sender, b.interval)
	return nil
}

// Last returns the most recent reading.
func (b *Battery) Last() battery.Status { return b.last }

func (b *Battery) String() string { return "Battery" }

func marker(s battery.State) string {
	switch s {
	case battery.Charging:
		return "+"
	case battery.Full:
		return "="
	default:
		return ""
	}
}
