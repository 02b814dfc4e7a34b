package app

import (
	"context"
	"image"
	"image/draw"
	"sync"

	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// Display is the surface the bar presents frames on. *xconn.Bar
// implements it; Headless is an in-memory stand-in.
type Display interface {
	Window() xproto.Window
	Width() uint32
	Height() uint32
	ScreenHeight() uint32
	Show() error
	// Present copies r of frame onto the display.
	Present(frame *image.RGBA, r image.Rectangle) error
	// Pump sends on out whenever the display needs a full redraw. It
	// returns when ctx is done or the display connection dies.
	Pump(ctx context.Context, out chan<- struct{}) error
	Close() error
}

// Geometry is where and how large the bar should be.
type Geometry struct {
	XOffset  int32
	YOffset  int32
	Width    uint32 // 0 means screen width
	Height   uint32
	Position widget.Position
}

// Opener creates a Display for the given geometry.
type Opener func(Geometry) (Display, error)

// Headless is a Display that keeps the last presented frame in memory.
type Headless struct {
	width, height, screenHeight uint32

	mu       sync.Mutex
	frame    *image.RGBA
	presents int
	shown    bool
	closed   bool
	exposes  chan struct{}
}

// NewHeadless returns a headless display of the given size.
func NewHeadless(width, height uint32) *Headless {
	return &Headless{
		width:        width,
		height:       height,
		screenHeight: height,
		frame:        image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
		exposes:      make(chan struct{}, eventBuffer),
	}
}

func (h *Headless) Window() xproto.Window { return 0 }
func (h *Headless) Width() uint32         { return h.width }
func (h *Headless) Height() uint32        { return h.height }
func (h *Headless) ScreenHeight() uint32  { return h.screenHeight }

func (h *Headless) Show() error {
	h.mu.Lock()
	h.shown = true
	h.mu.Unlock()
	return nil
}

func (h *Headless) Present(frame *image.RGBA, r image.Rectangle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	draw.Draw(h.frame, r, frame, r.Min, draw.Src)
	h.presents++
	return nil
}

func (h *Headless) Pump(ctx context.Context, out chan<- struct{}) error {
	for {
		select {
		case <-h.exposes:
			select {
			case out <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Headless) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

// Expose asks the bar for a full redraw, as a window manager would.
func (h *Headless) Expose() {
	select {
	case h.exposes <- struct{}{}:
	default:
	}
}

// Frame returns a copy of the last presented frame.
func (h *Headless) Frame() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := image.NewRGBA(h.frame.Bounds())
	copy(out.Pix, h.frame.Pix)
	return out
}

// Presents returns how many times Present was called.
func (h *Headless) Presents() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presents
}

// Shown reports whether Show was called.
func (h *Headless) Shown() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Closed reports whether Close was called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
