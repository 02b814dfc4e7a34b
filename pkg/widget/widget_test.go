package widget

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
)

var errBoom = errors.New("boom")

// failing returns errBoom from the lifecycle calls listed in failOn and
// records how often each call was made.
type failing struct {
	failOn map[string]bool
	calls  map[string]int
	closed int
}

func newFailing(ops ...string) *failing {
	f := &failing{failOn: map[string]bool{}, calls: map[string]int{}}
	for _, op := range ops {
		f.failOn[op] = true
	}
	return f
}

func (f *failing) result(op string) error {
	f.calls[op]++
	if f.failOn[op] {
		return errBoom
	}
	return nil
}

func (f *failing) Draw(*render.Canvas, layout.Rect) error { return f.result("draw") }
func (f *failing) Setup(context.Context, *Info) error { return f.result("setup") }
func (f *failing) Update(context.Context) error { return f.result("update") }
func (f *failing) Padding() uint32 { return 3 }
func (f *failing) String() string { return "Failing" }
func (f *failing) Close() error { f.closed++; return nil }
func (f *failing) Hook(context.Context, hooks.Sender, *hooks.TimedHooks) error {
	return f.result("hook")
}
func (f *failing) Size(*render.Context) (layout.Size, error) {
	return layout.Static(42), f.result("size")
}

var _ io.Closer = (*failing)(nil)

type countingRecorder struct {
	ops []string
}

func (c *countingRecorder) WidgetCrashed(_ string, op string) {
	c.ops = append(c.ops, op)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCanvas() *render.Canvas {
	img := image.NewRGBA(image.Rect(0, 0, 200, 20))
	return render.NewCanvas(img, img.Bounds())
}

// --- Replaceable ---

func TestReplaceableHealthyWidgetIsKept(t *testing.T) {
	f := newFailing()
	r := NewReplaceable(f, WithLogger(quietLogger()))
	ctx := context.Background()

	r.SetupOrReplace(ctx, &Info{})
	r.UpdateOrReplace(ctx)
	if got := r.SizeOrReplace(render.NewContext()); got != layout.Static(42) {
		t.Errorf("Size = %v, want Static(42)", got)
	}
	if r.DrawOrReplace(newCanvas(), layout.Rect{Width: 42, Height: 20}) {
		t.Error("DrawOrReplace reported a replacement for a healthy widget")
	}
	if r.Replaced() {
		t.Error("healthy widget was replaced")
	}
	if r.Padding() != 3 {
		t.Errorf("Padding = %d, want 3", r.Padding())
	}
}

func TestReplaceableReplacesOnEveryLifecycleCall(t *testing.T) {
	ctx := context.Background()
	rc := render.NewContext()
	cases := []struct {
		op   string
		call func(r *Replaceable)
	}{
		{"setup", func(r *Replaceable) { r.SetupOrReplace(ctx, &Info{}) }},
		{"hook", func(r *Replaceable) { r.HookOrReplace(ctx, hooks.Sender{}, hooks.NewTimedHooks(0, nil)) }},
		{"update", func(r *Replaceable) { r.UpdateOrReplace(ctx) }},
		{"size", func(r *Replaceable) { r.SizeOrReplace(rc) }},
		{"draw", func(r *Replaceable) { r.DrawOrReplace(newCanvas(), layout.Rect{Width: 10, Height: 20}) }},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			f := newFailing(tc.op)
			rec := &countingRecorder{}
			r := NewReplaceable(f, WithLogger(quietLogger()), WithRecorder(rec))

			tc.call(r)

			if !r.Replaced() {
				t.Fatal("widget not replaced after error")
			}
			if f.closed != 1 {
				t.Errorf("failed widget closed %d times, want 1", f.closed)
			}
			if len(rec.ops) != 1 || rec.ops[0] != tc.op {
				t.Errorf("recorder saw %v, want [%s]", rec.ops, tc.op)
			}
			if r.Unwrap().String() != "Crashed" {
				t.Errorf("slot holds %q, want placeholder", r.Unwrap().String())
			}
			if r.Name() != "Failing" {
				t.Errorf("Name = %q, want original name", r.Name())
			}
		})
	}
}

func TestReplacementIsFinal(t *testing.T) {
	f := newFailing("update")
	rec := &countingRecorder{}
	r := NewReplaceable(f, WithLogger(quietLogger()), WithRecorder(rec))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r.UpdateOrReplace(ctx)
	}
	if f.calls["update"] != 1 {
		t.Errorf("failed widget updated %d times, want 1", f.calls["update"])
	}
	if len(rec.ops) != 1 {
		t.Errorf("replacements = %d, want 1", len(rec.ops))
	}
}

func TestPlaceholderHasStaticSizeAndDraws(t *testing.T) {
	r := NewReplaceable(newFailing("setup"), WithLogger(quietLogger()))
	r.SetupOrReplace(context.Background(), &Info{})

	rc := render.NewContext()
	size := r.SizeOrReplace(rc)
	if size.IsFlex() || size.Width() == 0 {
		t.Fatalf("placeholder size = %v, want non-zero Static", size)
	}
	want, err := rc.MeasureText(DefaultConfig().Font, DefaultConfig().FontSize, CrashedText)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if size.Width() != want {
		t.Errorf("placeholder width = %d, want %d", size.Width(), want)
	}
	if r.Padding() != DefaultConfig().Padding {
		t.Errorf("placeholder padding = %d, want %d", r.Padding(), DefaultConfig().Padding)
	}

	c := newCanvas()
	if r.DrawOrReplace(c, layout.Rect{Width: size.Width(), Height: 20}) {
		t.Error("placeholder draw reported a replacement")
	}
	painted := false
	for _, b := range c.Image().Pix {
		if b != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Error("placeholder drew nothing")
	}
}

func TestDrawFailureDoesNotRedraw(t *testing.T) {
	r := NewReplaceable(newFailing("draw"), WithLogger(quietLogger()))
	c := newCanvas()
	if !r.DrawOrReplace(c, layout.Rect{Width: 10, Height: 20}) {
		t.Fatal("draw failure not reported")
	}
	for _, b := range c.Image().Pix {
		if b != 0 {
			t.Fatal("placeholder drawn in the failed widget's region")
		}
	}
}

// --- Error ---

func TestErrorKinds(t *testing.T) {
	if KindOf(errBoom) != KindWidget {
		t.Errorf("plain error kind = %v, want widget", KindOf(errBoom))
	}
	custom := Custom(errBoom)
	if KindOf(custom) != KindCustom {
		t.Errorf("Custom kind = %v", KindOf(custom))
	}
	wrapped := Wrap("Clock", "update", custom)
	if KindOf(wrapped) != KindCustom {
		t.Errorf("Wrap lost kind: %v", KindOf(wrapped))
	}
	if !errors.Is(wrapped, errBoom) {
		t.Error("wrapped error does not unwrap to cause")
	}
	if got := wrapped.Error(); got != "Clock update: boom" {
		t.Errorf("Error() = %q", got)
	}
	tr := Transport("put image", errBoom)
	if !IsTransport(tr) || IsTransport(wrapped) || IsTransport(nil) {
		t.Error("IsTransport misclassified")
	}
	if Custom(nil) != nil || Wrap("x", "y", nil) != nil || Transport("z", nil) != nil {
		t.Error("nil errors must stay nil")
	}
}

// --- Info ---

func TestInfoY(t *testing.T) {
	top := Info{Height: 21, YOffset: 4, ScreenHeight: 1080, Position: Top}
	if top.Y() != 4 {
		t.Errorf("top Y = %d, want 4", top.Y())
	}
	bottom := top
	bottom.Position = Bottom
	if bottom.Y() != 1080-21-4 {
		t.Errorf("bottom Y = %d, want %d", bottom.Y(), 1080-21-4)
	}
}

func TestParsePosition(t *testing.T) {
	if ParsePosition("bottom") != Bottom || ParsePosition("top") != Top || ParsePosition("") != Top {
		t.Error("ParsePosition mismatch")
	}
	if Bottom.String() != "bottom" || Top.String() != "top" {
		t.Error("Position.String mismatch")
	}
}
