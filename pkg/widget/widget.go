// Package widget defines the capability contract every visual element of
// the bar implements, the configuration and geometry snapshots handed to
// widgets, and the fault-isolation wrapper the runtime drives them through.
package widget

import (
	"context"
	"image/color"
	"time"

	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
)

// Widget is implemented by everything drawn on the bar.
//
// Draw must not change what Size would return; any state change that
// affects layout belongs in Update. Update and Hook may block (for example
// on a network request); only the calling widget's redraw waits on them.
type Widget interface {
	// Draw paints the widget into its region. c is clipped to r.
	Draw(c *render.Canvas, r layout.Rect) error

	// Setup runs once before Hook with a snapshot of the bar geometry.
	Setup(ctx context.Context, info *Info) error

	// Update refreshes widget state. It is called once at startup and then
	// every time the widget's Sender fires.
	Update(ctx context.Context) error

	// Hook registers for future wakeups, either by subscribing sender to
	// pool or by starting a goroutine that holds a copy of sender.
	Hook(ctx context.Context, sender hooks.Sender, pool *hooks.TimedHooks) error

	// Size reports how much horizontal space the widget wants.
	Size(rc *render.Context) (layout.Size, error)

	// Padding is the blank space on each side of the widget's region.
	Padding() uint32

	// String names the widget in logs.
	String() string
}

// Base provides no-op Setup, Update and Hook for widgets that do not need
// them. Embed it by value.
type Base struct{}

// Setup does nothing.
func (Base) Setup(context.Context, *Info) error { return nil }

// Update does nothing.
func (Base) Update(context.Context) error { return nil }

// Hook does nothing.
func (Base) Hook(context.Context, hooks.Sender, *hooks.TimedHooks) error { return nil }

// Position is the screen edge the bar is docked to.
type Position int

const (
	// Top docks the bar to the top edge of the screen.
	Top Position = iota
	// Bottom docks the bar to the bottom edge of the screen.
	Bottom
)

// String returns "top" or "bottom".
func (p Position) String() string {
	if p == Bottom {
		return "bottom"
	}
	return "top"
}

// ParsePosition maps "top"/"bottom" to a Position. Anything else is Top.
func ParsePosition(s string) Position {
	if s == "bottom" {
		return Bottom
	}
	return Top
}

// Config is the configuration a widget is built with. Widgets copy the
// fields they need at construction; a Config is never shared mutable state.
type Config struct {
	Font        string
	FontSize    float64
	Padding     uint32
	FgColor     color.RGBA
	HideTimeout time.Duration
	Flex        bool
}

// DefaultConfig returns the configuration used when none is given and by
// the crashed-widget placeholder.
func DefaultConfig() Config {
	return Config{
		Font:        render.DefaultFont,
		FontSize:    15,
		Padding:     10,
		FgColor:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		HideTimeout: time.Second,
		Flex:        false,
	}
}

// Info is a read-only snapshot of the bar handed to widgets at setup time.
// It is produced once; widgets must not expect it to be refreshed.
type Info struct {
	Background   color.RGBA
	Regions      []layout.Rect
	Height       uint32
	Width        uint32
	Position     Position
	HostWindow   xproto.Window
	XOffset      int32
	YOffset      int32
	ScreenHeight uint32
}

// Y returns the bar's top edge in root window coordinates.
func (i *Info) Y() int32 {
	if i.Position == Bottom {
		return int32(i.ScreenHeight) - int32(i.Height) - i.YOffset
	}
	return i.YOffset
}
