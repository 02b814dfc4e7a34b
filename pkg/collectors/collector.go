// Package collectors defines the sampling interface behind the bar's
// data-driven widgets. Each collector (cpu, memory, disk, battery) returns
// one typed snapshot per call; the widget decides when to call it.
package collectors

import (
	"context"
	"time"
)

// Collector takes one sample. Implementations live in sub-packages (e.g.,
// pkg/collectors/sysmetrics) and must be safe to call from the bar's event
// loop without blocking for long.
type Collector[T any] interface {
	// Name returns a unique identifier for this collector (e.g., "cpu").
	Name() string

	// Collect performs one sampling cycle.
	Collect(ctx context.Context) (T, error)
}

// Sample is one collection result with its time and outcome.
type Sample[T any] struct {
	Value     T
	Err       error
	Timestamp time.Time
}

// Take runs c once and stamps the result.
func Take[T any](ctx context.Context, c Collector[T]) Sample[T] {
	v, err := c.Collect(ctx)
	return Sample[T]{Value: v, Err: err, Timestamp: time.Now()}
}

// Func adapts a plain function to Collector.
type Func[T any] struct {
	ID string
	Fn func(ctx context.Context) (T, error)
}

// Name returns f.ID.
func (f Func[T]) Name() string { return f.ID }

// Collect calls f.Fn.
func (f Func[T]) Collect(ctx context.Context) (T, error) { return f.Fn(ctx) }
