package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// DefaultHeight is the bar height when none is configured.
const DefaultHeight = 21

// ErrNoDisplay is returned by Build when neither a Display nor an Opener
// was given.
var ErrNoDisplay = errors.New("app: no display configured")

// Builder assembles a Bar.
type Builder struct {
	display      Display
	opener       Opener
	geom         Geometry
	background   color.RGBA
	widgets      []widget.Widget
	log          *slog.Logger
	rec          Recorder
	signals      <-chan os.Signal
	hookInterval time.Duration
	services     []suture.Service
}

// New returns a Builder with the default geometry: a 21px bar along the
// top of the screen on an opaque black background.
func New() *Builder {
	return &Builder{
		geom:       Geometry{Height: DefaultHeight, Position: widget.Top},
		background: color.RGBA{A: 255},
		log:        slog.Default(),
		rec:        nopRecorder{},
	}
}

// Display uses an already open display. Geometry options are then only
// reported to widgets.
func (b *Builder) Display(d Display) *Builder { b.display = d; return b }

// Open defers display creation to Build, passing it the configured geometry.
func (b *Builder) Open(fn Opener) *Builder { b.opener = fn; return b }

// Height sets the bar height in pixels.
func (b *Builder) Height(h uint32) *Builder { b.geom.Height = h; return b }

// Width sets the bar width. Zero means the screen width.
func (b *Builder) Width(w uint32) *Builder { b.geom.Width = w; return b }

// Offset shifts the bar away from the screen corner.
func (b *Builder) Offset(x, y int32) *Builder {
	b.geom.XOffset, b.geom.YOffset = x, y
	return b
}

// Position docks the bar to the top or bottom edge.
func (b *Builder) Position(p widget.Position) *Builder { b.geom.Position = p; return b }

// Background sets the colour painted behind every widget.
func (b *Builder) Background(c color.RGBA) *Builder { b.background = c; return b }

// Widget appends one widget.
func (b *Builder) Widget(w widget.Widget) *Builder { b.widgets = append(b.widgets, w); return b }

// Widgets appends several widgets.
func (b *Builder) Widgets(ws ...widget.Widget) *Builder {
	b.widgets = append(b.widgets, ws...)
	return b
}

// Logger sets the logger.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	if l != nil {
		b.log = l
	}
	return b
}

// Metrics sets the runtime recorder.
func (b *Builder) Metrics(r Recorder) *Builder {
	if r != nil {
		b.rec = r
	}
	return b
}

// Signals sets the channel whose receipt shuts the bar down.
func (b *Builder) Signals(ch <-chan os.Signal) *Builder { b.signals = ch; return b }

// HookInterval sets the hook scheduler's base interval.
func (b *Builder) HookInterval(d time.Duration) *Builder { b.hookInterval = d; return b }

// Service adds a background service supervised alongside the bar.
func (b *Builder) Service(s suture.Service) *Builder {
	b.services = append(b.services, s)
	return b
}

// Geometry returns the configured geometry.
func (b *Builder) Geometry() Geometry { return b.geom }

// Build opens the display if needed and wraps every widget for fault
// isolation.
func (b *Builder) Build() (*Bar, error) {
	d := b.display
	if d == nil {
		if b.opener == nil {
			return nil, ErrNoDisplay
		}
		var err error
		d, err = b.opener(b.geom)
		if err != nil {
			return nil, fmt.Errorf("open display: %w", err)
		}
	}

	ws := make([]*widget.Replaceable, len(b.widgets))
	for i, w := range b.widgets {
		ws[i] = widget.NewReplaceable(w, widget.WithLogger(b.log), widget.WithRecorder(b.rec))
	}

	bounds := image.Rect(0, 0, int(d.Width()), int(d.Height()))
	bar := &Bar{
		display:    d,
		geom:       b.geom,
		background: b.background,
		widgets:    ws,
		engine:     layout.NewEngine(),
		rc:         render.NewContext(),
		frame:      image.NewRGBA(bounds),
		scratch:    image.NewRGBA(bounds),
		updates:    make(chan hooks.Index, eventBuffer),
		redraws:    make(chan struct{}, eventBuffer),
		fatal:      make(chan error, 1),
		signals:    b.signals,
		pool:       hooks.NewTimedHooks(b.hookInterval, b.log),
		services:   slices.Clone(b.services),
		log:        b.log,
		rec:        b.rec,
	}
	bar.state.store(Initializing)
	return bar, nil
}

// Bar is a running status bar.
type Bar struct {
	display    Display
	geom       Geometry
	background color.RGBA
	widgets    []*widget.Replaceable
	regions    []layout.Rect
	engine     *layout.Engine
	rc         *render.Context
	frame      *image.RGBA
	scratch    *image.RGBA

	updates chan hooks.Index
	redraws chan struct{}
	fatal   chan error
	signals <-chan os.Signal

	pool     *hooks.TimedHooks
	services []suture.Service
	cancel   context.CancelFunc
	supDone  <-chan error

	log   *slog.Logger
	rec   Recorder
	state stateBox

	shutdownOnce sync.Once
	shutdownErr  error
}

// State returns the current lifecycle stage. Safe from any goroutine.
func (b *Bar) State() State { return b.state.load() }

// Regions returns a copy of the current layout. Call it from the goroutine
// running Start, or after Start returned.
func (b *Bar) Regions() []layout.Rect { return slices.Clone(b.regions) }

// Widgets returns the wrapped widgets in bar order.
func (b *Bar) Widgets() []*widget.Replaceable { return b.widgets }

func (b *Bar) info() *widget.Info {
	return &widget.Info{
		Background:   b.background,
		Regions:      slices.Clone(b.regions),
		Height:       b.display.Height(),
		Width:        b.display.Width(),
		Position:     b.geom.Position,
		HostWindow:   b.display.Window(),
		XOffset:      b.geom.XOffset,
		YOffset:      b.geom.YOffset,
		ScreenHeight: b.display.ScreenHeight(),
	}
}

// Start runs the bar until ctx is cancelled, a signal arrives or the
// display dies. Only the last case returns an error.
func (b *Bar) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	info := b.info()
	for _, w := range b.widgets {
		w.SetupOrReplace(ctx, info)
	}
	for i, w := range b.widgets {
		w.HookOrReplace(ctx, hooks.NewSender(b.updates, hooks.Index(i)), b.pool)
	}
	for _, w := range b.widgets {
		w.UpdateOrReplace(ctx)
	}

	b.relayout()
	if err := b.display.Show(); err != nil {
		return err
	}
	// The first frame can carry artifacts from the unpainted window; paint
	// twice.
	for i := 0; i < 2; i++ {
		if err := b.drawFull(); err != nil {
			return err
		}
	}

	sup := newSupervisor(b.log)
	sup.Add(b.pool)
	sup.Add(pumpService{display: b.display, out: b.redraws, fatal: b.fatal})
	for _, s := range b.services {
		sup.Add(s)
	}
	b.supDone = sup.ServeBackground(ctx)

	b.state.store(Running)
	b.log.Info("bar running", "widgets", len(b.widgets), "width", b.display.Width(), "height", b.display.Height())

	for {
		select {
		case idx := <-b.updates:
			if err := b.handleUpdates(ctx, idx); err != nil {
				b.state.store(ShuttingDown)
				return err
			}
		case <-b.redraws:
			if err := b.drawFull(); err != nil {
				b.state.store(ShuttingDown)
				return err
			}
		case sig := <-b.signals:
			b.log.Info("received signal, shutting down", "signal", sig.String())
			b.state.store(ShuttingDown)
			return nil
		case err := <-b.fatal:
			b.log.Error("display connection lost", "err", err)
			b.state.store(ShuttingDown)
			return err
		case <-ctx.Done():
			b.state.store(ShuttingDown)
			return nil
		}
	}
}

// handleUpdates updates the widget behind first and every other widget
// already queued, then relayouts once. Unchanged geometry means only the
// touched regions are repainted.
func (b *Bar) handleUpdates(ctx context.Context, first hooks.Index) error {
	touched := []hooks.Index{first}
	b.update(ctx, first)
drain:
	for {
		select {
		case idx := <-b.updates:
			b.update(ctx, idx)
			if !slices.Contains(touched, idx) {
				touched = append(touched, idx)
			}
		default:
			break drain
		}
	}

	if b.relayout() {
		return b.drawFull()
	}
	for _, idx := range touched {
		if err := b.drawPartial(int(idx)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bar) update(ctx context.Context, idx hooks.Index) {
	w := b.widgets[idx]
	w.UpdateOrReplace(ctx)
	b.rec.WidgetUpdated(w.Name())
}

// Shutdown closes every widget holding resources (the tray hands its icons
// back), stops background services and closes the display. Later calls
// return the first call's result.
func (b *Bar) Shutdown() error {
	b.shutdownOnce.Do(func() {
		b.state.store(ShuttingDown)
		var errs []error
		for _, w := range b.widgets {
			if err := w.Close(); err != nil {
				b.log.Warn("closing widget", "widget", w.Name(), "err", err)
				errs = append(errs, fmt.Errorf("close %s: %w", w.Name(), err))
			}
		}
		if b.cancel != nil {
			b.cancel()
		}
		if err := b.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close display: %w", err))
		}
		if b.supDone != nil {
			<-b.supDone
		}
		b.shutdownErr = errors.Join(errs...)
	})
	return b.shutdownErr
}
