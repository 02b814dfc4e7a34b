package widget

import (
	"context"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
)

// CrashRecorder counts widget replacements.
type CrashRecorder interface {
	WidgetCrashed(widget, op string)
}

// Option configures a Replaceable.
type Option func(*Replaceable)

// WithLogger sets the logger used to report replacements.
func WithLogger(log *slog.Logger) Option {
	return func(r *Replaceable) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRecorder sets the recorder notified on every replacement.
func WithRecorder(rec CrashRecorder) Option {
	return func(r *Replaceable) {
		r.rec = rec
	}
}

// Replaceable isolates a widget's failures from the rest of the bar. When a
// lifecycle call returns an error the widget is closed, swapped for a static
// placeholder and the call is repeated on the placeholder. The swap is
// permanent.
//
// A Replaceable is driven from a single goroutine.
type Replaceable struct {
	w        Widget
	name     string
	replaced bool
	log      *slog.Logger
	rec      CrashRecorder
}

// NewReplaceable wraps w.
func NewReplaceable(w Widget, opts ...Option) *Replaceable {
	r := &Replaceable{w: w, name: w.String(), log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Replaceable) replace(op string, err error) {
	err = Wrap(r.name, op, err)
	r.log.Error("widget crashed, replacing", "widget", r.name, "op", op, "kind", KindOf(err).String(), "err", err)
	if r.rec != nil {
		r.rec.WidgetCrashed(r.name, op)
	}
	if c, ok := r.w.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			r.log.Warn("closing crashed widget", "widget", r.name, "err", cerr)
		}
	}
	r.w = newCrashed()
	r.replaced = true
}

// SetupOrReplace calls Setup.
func (r *Replaceable) SetupOrReplace(ctx context.Context, info *Info) {
	if err := r.w.Setup(ctx, info); err != nil {
		r.replace("setup", err)
		_ = r.w.Setup(ctx, info)
	}
}

// HookOrReplace calls Hook.
func (r *Replaceable) HookOrReplace(ctx context.Context, sender hooks.Sender, pool *hooks.TimedHooks) {
	if err := r.w.Hook(ctx, sender, pool); err != nil {
		r.replace("hook", err)
		_ = r.w.Hook(ctx, sender, pool)
	}
}

// UpdateOrReplace calls Update.
func (r *Replaceable) UpdateOrReplace(ctx context.Context) {
	if err := r.w.Update(ctx); err != nil {
		r.replace("update", err)
		_ = r.w.Update(ctx)
	}
}

// DrawOrReplace calls Draw. On failure the placeholder is not drawn: its
// size may differ from the failed widget's and the caller must relayout
// first. It reports whether a replacement happened.
func (r *Replaceable) DrawOrReplace(c *render.Canvas, rect layout.Rect) bool {
	if err := r.w.Draw(c, rect); err != nil {
		r.replace("draw", err)
		return true
	}
	return false
}

// SizeOrReplace calls Size.
func (r *Replaceable) SizeOrReplace(rc *render.Context) layout.Size {
	s, err := r.w.Size(rc)
	if err != nil {
		r.replace("size", err)
		s, _ = r.w.Size(rc)
	}
	return s
}

// Padding returns the current widget's padding.
func (r *Replaceable) Padding() uint32 {
	return r.w.Padding()
}

// Replaced reports whether the original widget has been swapped out.
func (r *Replaceable) Replaced() bool {
	return r.replaced
}

// Name returns the original widget's name.
func (r *Replaceable) Name() string {
	return r.name
}

// Unwrap returns the widget currently in the slot.
func (r *Replaceable) Unwrap() Widget {
	return r.w
}

// Close closes the current widget if it holds resources.
func (r *Replaceable) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
