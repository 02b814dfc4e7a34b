package widgets

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
)

// subscribe registers sender with the shared pool, or starts a private
// ticker when the widget asked for its own interval.
func subscribe(ctx context.Context, sender hooks.Sender, pool *hooks.TimedHooks, interval time.Duration) {
	if interval <= 0 {
		pool.Subscribe(sender)
		return
	}
	go poll(ctx, sender, interval)
}

// poll wakes sender every interval until ctx is done or the bar stops
// reading updates.
func poll(ctx context.Context, sender hooks.Sender, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := sender.Send(ctx); err != nil {
				return
			}
		}
	}
}
