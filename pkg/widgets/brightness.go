package widgets

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors"
	"gitlab.com/tinyland/lab/statusbar/pkg/collectors/backlight"
	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

const (
	// DefaultBrightnessFormat shows the brightness percentage.
	DefaultBrightnessFormat = "BRI %p%"
	// DefaultBrightnessInterval is how often the backlight is polled. It is
	// short because the widget only appears while brightness is changing.
	DefaultBrightnessInterval = 200 * time.Millisecond
)

// Brightness shows the backlight level for HideTimeout after it changes
// and takes no space the rest of the time. A zero HideTimeout keeps it
// visible.
type Brightness struct {
	*Text
	coll      collectors.Collector[backlight.Status]
	format    string
	interval  time.Duration
	hideAfter time.Duration
	now       func() time.Time

	last    backlight.Status
	seen    bool
	changed time.Time
	hidden  bool
}

// NewBrightness creates a brightness widget. Format codes: %p brightness
// percent, %d device name.
func NewBrightness(coll collectors.Collector[backlight.Status], format string, interval time.Duration, cfg widget.Config) *Brightness {
	if format == "" {
		format = DefaultBrightnessFormat
	}
	if interval <= 0 {
		interval = DefaultBrightnessInterval
	}
	cfg.Flex = false
	return &Brightness{
		Text:      NewText("", cfg),
		coll:      coll,
		format:    format,
		interval:  interval,
		hideAfter: cfg.HideTimeout,
		now:       time.Now,
		hidden:    true,
	}
}

// Setup checks that the backlight can be read at all.
func (b *Brightness) Setup(ctx context.Context, _ *widget.Info) error {
	if _, err := b.coll.Collect(ctx); err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	return nil
}

// Update reads the backlight. A changed level restarts the hide timer;
// the first reading counts as a change.
func (b *Brightness) Update(ctx context.Context) error {
	st, err := b.coll.Collect(ctx)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	now := b.now()
	if !b.seen || st.Level != b.last.Level {
		b.seen = true
		b.changed = now
	}
	b.last = st
	b.hidden = b.hideAfter > 0 && now.Sub(b.changed) >= b.hideAfter
	if b.hidden {
		b.SetText("")
		return nil
	}
	b.SetText(expand(b.format, map[byte]string{
		'p': fmt.Sprint(st.Percent()),
		'd': st.Device,
	}))
	return nil
}

// Size is zero while hidden.
func (b *Brightness) Size(rc *render.Context) (layout.Size, error) {
	if b.hidden {
		return layout.Static(0), nil
	}
	return b.Text.Size(rc)
}

// Hidden reports whether the hide timeout has run out.
func (b *Brightness) Hidden() bool { return b.hidden }

// Hook starts the backlight poller.
func (b *Brightness) Hook(ctx context.Context, sender hooks.Sender, _ *hooks.TimedHooks) error {
	go poll(ctx, sender, b.interval)
	return nil
}

// Last returns the most recent reading.
func (b *Brightness) Last() backlight.Status { return b.last }

func (b *Brightness) String() string { return "Brightness" }
