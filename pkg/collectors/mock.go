package collectors

import (
	"context"
	"sync"
	"sync/atomic"
)

// Mock implements Collector for testing. Its value and error can be
// changed between calls and it counts how many times Collect ran.
type Mock[T any] struct {
	name string

	mu    sync.RWMutex
	value T
	err   error

	callCount atomic.Int64
}

// NewMock creates a mock collector returning value.
func NewMock[T any](name string, value T) *Mock[T] {
	return &Mock[T]{name: name, value: value}
}

// Name returns the collector name.
func (m *Mock[T]) Name() string { return m.name }

// Set updates the returned value and clears any error (thread-safe).
func (m *Mock[T]) Set(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.err = v, nil
}

// SetError makes later calls fail with err (thread-safe).
func (m *Mock[T]) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Collect returns the configured value and error.
func (m *Mock[T]) Collect(ctx context.Context) (T, error) {
	m.callCount.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.err
}

// CallCount returns how many times Collect has been called.
func (m *Mock[T]) CallCount() int64 {
	return m.callCount.Load()
}
