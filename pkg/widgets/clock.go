package widgets

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// DefaultClockFormat is a Go time layout.
const DefaultClockFormat = "Mon Jan 2 15:04:05"

// Clock displays the local time in a Go time layout.
type Clock struct {
	*Text
	format   string
	interval time.Duration
	now      func() time.Time
}

// NewClock creates a clock. An empty format selects DefaultClockFormat. A
// zero interval refreshes with the bar's shared timer.
func NewClock(format string, interval time.Duration, cfg widget.Config) *Clock {
	if format == "" {
		format = DefaultClockFormat
	}
	return &Clock{
		Text:     NewText("", cfg),
		format:   format,
		interval: interval,
		now:      time.Now,
	}
}

// Update formats the current time.
func (c *Clock) Update(context.Context) error {
	c.SetText(c.now().Format(c.format))
	return nil
}

// Hook refreshes the clock periodically.
func (c *Clock) Hook(ctx context.Context, sender hooks.Sender, pool *hooks.TimedHooks) error {
	subscribe(ctx, sender, pool, c.interval)
	return nil
}

func (c *Clock) String() string { return "Clock" }
