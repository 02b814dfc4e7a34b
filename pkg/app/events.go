// Package app is the bar runtime: it owns the widget list, drives every
// widget through setup, hook and update, keeps the layout current and
// repaints the bar when widgets or the display ask for it.
//
// A single goroutine, the one calling Start, touches widget state.
// Background work (display events, the hook scheduler, tray listeners,
// pollers) reaches it only through bounded channels.
package app

import (
	"sync/atomic"

	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// State is the lifecycle stage of a Bar.
type State int32

const (
	// Initializing covers setup, hook, the first update and first draws.
	Initializing State = iota
	// Running is the event loop.
	Running
	// ShuttingDown is terminal.
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	}
	return "unknown"
}

type stateBox struct{ v atomic.Int32 }

func (b *stateBox) load() State   { return State(b.v.Load()) }
func (b *stateBox) store(s State) { b.v.Store(int32(s)) }

// eventBuffer is the capacity of every channel feeding the loop.
const eventBuffer = 10

// Redraw kinds reported to the Recorder.
const (
	RedrawFull    = "full"
	RedrawPartial = "partial"
)

// Recorder observes the runtime. metrics.Recorder implements it.
type Recorder interface {
	widget.CrashRecorder
	WidgetUpdated(name string)
	Redraw(kind string)
	Relayout(changed bool)
}

type nopRecorder struct{}

func (nopRecorder) WidgetCrashed(string, string) {}
func (nopRecorder) WidgetUpdated(string)         {}
func (nopRecorder) Redraw(string)                {}
func (nopRecorder) Relayout(bool)                {}
