package hooks

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Sender ---

func TestSenderSendQueuesIndex(t *testing.T) {
	ch := make(chan Index, 1)
	s := NewSender(ch, 4)
	if err := s.Send(context.Background()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := <-ch; got != 4 {
		t.Errorf("received %d, want 4", got)
	}
	if s.Index() != 4 {
		t.Errorf("Index() = %d, want 4", s.Index())
	}
}

func TestSenderCopiesShareChannel(t *testing.T) {
	ch := make(chan Index, 2)
	a := NewSender(ch, 1)
	b := a
	a.TrySend()
	b.TrySend()
	if len(ch) != 2 {
		t.Fatalf("len(ch) = %d, want 2", len(ch))
	}
}

func TestSenderSendRespectsContext(t *testing.T) {
	ch := make(chan Index) // nobody reads
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewSender(ch, 0).Send(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send error = %v, want DeadlineExceeded", err)
	}
}

func TestSenderTrySendFull(t *testing.T) {
	ch := make(chan Index, 1)
	s := NewSender(ch, 0)
	if !s.TrySend() {
		t.Fatal("first TrySend should succeed")
	}
	if s.TrySend() {
		t.Fatal("TrySend on a full channel should report false")
	}
}

func TestZeroSender(t *testing.T) {
	var s Sender
	if err := s.Send(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("zero Sender Send = %v, want ErrClosed", err)
	}
	if s.TrySend() {
		t.Error("zero Sender TrySend should report false")
	}
}

// --- TimedHooks ---

func TestTimedHooksStepScalesWithSubscribers(t *testing.T) {
	th := NewTimedHooks(time.Second, nil)
	if th.Step() != time.Second {
		t.Errorf("Step() with no subscribers = %v, want 1s", th.Step())
	}
	ch := make(chan Index, 10)
	for i := 0; i < 4; i++ {
		th.Subscribe(NewSender(ch, Index(i)))
	}
	if got := th.Step(); got != 250*time.Millisecond {
		t.Errorf("Step() with 4 subscribers = %v, want 250ms", got)
	}
}

func TestTimedHooksDefaultInterval(t *testing.T) {
	if got := NewTimedHooks(0, nil).Interval(); got != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", got, DefaultInterval)
	}
}

func TestTimedHooksCycleWakesEachSubscriberOnce(t *testing.T) {
	const base = 60 * time.Millisecond
	th := NewTimedHooks(base, nil)
	ch := make(chan Index, 10)
	for i := 0; i < 3; i++ {
		th.Subscribe(NewSender(ch, Index(i)))
	}

	start := time.Now()
	if err := th.Cycle(context.Background()); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	elapsed := time.Since(start)

	close(ch)
	counts := map[Index]int{}
	var order []Index
	for idx := range ch {
		counts[idx]++
		order = append(order, idx)
	}
	for i := 0; i < 3; i++ {
		if counts[Index(i)] != 1 {
			t.Errorf("subscriber %d woken %d times, want 1", i, counts[Index(i)])
		}
	}
	for i, idx := range order {
		if idx != Index(i) {
			t.Errorf("wakeup %d went to %d, want subscription order", i, idx)
		}
	}
	// Three sleeps of base/3 each.
	if elapsed < base-5*time.Millisecond {
		t.Errorf("cycle took %v, want about %v", elapsed, base)
	}
}

func TestTimedHooksServeStopsOnCancel(t *testing.T) {
	th := NewTimedHooks(10*time.Millisecond, nil)
	ch := make(chan Index, 100)
	th.Subscribe(NewSender(ch, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Serve(ctx) }()

	// Wait for a few wakeups.
	for i := 0; i < 3; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("no wakeup received")
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTimedHooksServeWithoutSubscribers(t *testing.T) {
	th := NewTimedHooks(time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Serve(ctx) }()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve without subscribers did not return after cancel")
	}
}

func TestTimedHooksSubscribeAfterStartIgnored(t *testing.T) {
	th := NewTimedHooks(time.Millisecond, nil)
	ch := make(chan Index, 100)
	th.Subscribe(NewSender(ch, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go th.Serve(ctx)
	<-ch // Serve has started

	th.Subscribe(NewSender(ch, 1))
	if th.Len() != 1 {
		t.Errorf("Len() = %d after late Subscribe, want 1", th.Len())
	}
}
