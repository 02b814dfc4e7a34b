package hooks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the tick budget TimedHooks spreads over its subscribers.
const DefaultInterval = time.Second

// TimedHooks wakes subscribed widgets round-robin: once started it cycles
// through every subscriber, sending one wakeup each and sleeping
// interval/N between sends, so each subscriber is woken once per interval.
//
// Widgets needing a different cadence (sub-second, multi-minute) should run
// their own goroutine and use their Sender directly.
type TimedHooks struct {
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	senders []Sender
	started bool
}

// NewTimedHooks creates a scheduler with the given base interval. A
// non-positive interval selects DefaultInterval.
func NewTimedHooks(interval time.Duration, log *slog.Logger) *TimedHooks {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &TimedHooks{interval: interval, log: log}
}

// Subscribe registers s for periodic wakeups. Registration is permanent.
// Subscriptions made after the scheduler started are ignored.
func (t *TimedHooks) Subscribe(s Sender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		t.log.Warn("timed hooks: subscribe after start ignored", "widget", int(s.Index()))
		return
	}
	t.senders = append(t.senders, s)
}

// Len returns the number of subscribers.
func (t *TimedHooks) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.senders)
}

// Interval returns the base interval.
func (t *TimedHooks) Interval() time.Duration {
	return t.interval
}

// Step returns the sleep between two consecutive wakeups: interval/N.
// With no subscribers it returns the full interval.
func (t *TimedHooks) Step() time.Duration {
	n := t.Len()
	if n == 0 {
		return t.interval
	}
	return t.interval / time.Duration(n)
}

// Cycle sends one wakeup to every subscriber in subscription order,
// sleeping Step() after each send. It returns early if ctx is done.
func (t *TimedHooks) Cycle(ctx context.Context) error {
	t.mu.Lock()
	senders := t.senders
	t.mu.Unlock()

	step := t.Step()
	timer := time.NewTimer(step)
	defer timer.Stop()

	for _, s := range senders {
		if err := s.Send(ctx); err != nil {
			return err
		}
		timer.Reset(step)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Serve runs cycles until ctx is cancelled. It freezes the subscriber list
// on entry. It satisfies suture.Service.
func (t *TimedHooks) Serve(ctx context.Context) error {
	t.mu.Lock()
	t.started = true
	n := len(t.senders)
	t.mu.Unlock()

	if n == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	t.log.Debug("timed hooks started", "subscribers", n, "step", t.Step())
	for {
		if err := t.Cycle(ctx); err != nil {
			return err
		}
	}
}

// String names the service in supervisor logs.
func (t *TimedHooks) String() string {
	return "timed-hooks"
}
