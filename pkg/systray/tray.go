// Package systray implements an XEmbed system tray as a bar widget.
//
// The tray claims the _NET_SYSTEM_TRAY_S0 selection on its own X
// connection, adopts icon windows that ask to dock, and lays them out
// left to right inside a window stacked above the bar. Icon windows belong
// to other processes and may vanish at any moment; errors caused by that
// are logged and ignored.
package systray

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

// ErrSelectionTaken means another tray already owns the selection.
var ErrSelectionTaken = errors.New("systray: selection owned by another tray")

// DefaultInternalPadding is the gap between icons.
const DefaultInternalPadding = 2

const eventBuffer = 10

// IconRecorder observes how many icons are docked.
type IconRecorder interface {
	TrayIcons(n int)
}

// Option configures a Tray.
type Option func(*Tray)

// WithLogger sets the tray logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tray) {
		if log != nil {
			t.log = log
		}
	}
}

// WithRecorder reports docked icon counts to rec.
func WithRecorder(rec IconRecorder) Option {
	return func(t *Tray) { t.rec = rec }
}

// WithInternalPadding sets the gap between icons.
func WithInternalPadding(p uint32) Option {
	return func(t *Tray) { t.internalPadding = p }
}

type child struct {
	window xproto.Window
	width  uint32
}

// Tray is the system tray widget.
type Tray struct {
	conn            Conn
	atoms           *xconn.Atoms
	padding         uint32
	internalPadding uint32
	log             *slog.Logger
	rec             IconRecorder

	window   xproto.Window
	owned    bool
	y        int16
	xOffset  int32
	iconSize uint32
	children []child
	events   chan event
	closed   bool
}

// New builds a tray on conn. The tray takes ownership of conn.
func New(conn Conn, cfg widget.Config, opts ...Option) *Tray {
	t := &Tray{
		conn:            conn,
		atoms:           conn.Atoms(),
		padding:         cfg.Padding,
		internalPadding: DefaultInternalPadding,
		log:             slog.Default(),
		events:          make(chan event, eventBuffer),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tray) String() string { return "Systray" }

// Padding returns the outer padding.
func (t *Tray) Padding() uint32 { return t.padding }

// Owned reports whether the tray holds the selection.
func (t *Tray) Owned() bool { return t.owned }

// Window returns the tray window, or 0 before Setup.
func (t *Tray) Window() xproto.Window { return t.window }

// Children returns the docked icon windows in order.
func (t *Tray) Children() []xproto.Window {
	out := make([]xproto.Window, len(t.children))
	for i, c := range t.children {
		out[i] = c.window
	}
	return out
}

// Setup creates the tray window above the bar and claims the selection.
// Losing the race to another tray is not an error: the tray stays empty.
func (t *Tray) Setup(_ context.Context, info *widget.Info) error {
	if info.Height < 2 {
		return fmt.Errorf("bar height %d too small for tray icons", info.Height)
	}
	t.iconSize = info.Height - 2
	t.y = int16(info.Y())
	t.xOffset = info.XOffset

	win, err := t.conn.CreateTrayWindow(t.y, uint16(info.Height))
	if err != nil {
		return fmt.Errorf("create tray window: %w", err)
	}
	t.window = win

	if info.HostWindow != 0 {
		if err := t.conn.StackAbove(win, info.HostWindow); err != nil {
			return fmt.Errorf("stack tray above bar: %w", err)
		}
	}

	err = t.takeSelection()
	if errors.Is(err, ErrSelectionTaken) {
		t.log.Warn("another system tray is running, tray disabled")
		return nil
	}
	return err
}

func (t *Tray) takeSelection() error {
	sel := t.atoms.NetSystemTrayS0
	owner, err := t.conn.SelectionOwner(sel)
	if err != nil {
		return fmt.Errorf("get selection owner: %w", err)
	}
	if owner == t.window {
		t.owned = true
		return nil
	}
	if owner != 0 {
		return ErrSelectionTaken
	}
	if err := t.conn.SetSelectionOwner(t.window, sel); err != nil {
		return fmt.Errorf("set selection owner: %w", err)
	}
	owner, err = t.conn.SelectionOwner(sel)
	if err != nil {
		return fmt.Errorf("get selection owner: %w", err)
	}
	if owner != t.window {
		return ErrSelectionTaken
	}
	t.owned = true

	root := t.conn.Root()
	data := [5]uint32{xproto.TimeCurrentTime, uint32(sel), uint32(t.window), 0, 0}
	if err := t.conn.SendClientMessage(root, root, t.atoms.Manager, xproto.EventMaskStructureNotify, data); err != nil {
		return fmt.Errorf("announce tray manager: %w", err)
	}
	t.log.Debug("system tray selection acquired", "window", uint32(t.window))
	return nil
}

// Hook starts the listener that forwards tray events and wakes the bar.
func (t *Tray) Hook(ctx context.Context, sender hooks.Sender, _ *hooks.TimedHooks) error {
	go t.listen(ctx, sender)
	return nil
}

func (t *Tray) listen(ctx context.Context, sender hooks.Sender) {
	for {
		raw, err := t.conn.WaitForEvent()
		if errors.Is(err, xconn.ErrConnectionClosed) {
			return
		}
		if err != nil {
			t.log.Debug("tray x error", "err", err)
			continue
		}
		ev, ok := translate(raw, t.atoms)
		if !ok {
			continue
		}
		select {
		case t.events <- ev:
		case <-ctx.Done():
			return
		}
		if err := sender.Send(ctx); err != nil {
			return
		}
	}
}

// Update handles every queued tray event.
func (t *Tray) Update(context.Context) error {
	for {
		select {
		case ev := <-t.events:
			if err := t.handle(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *Tray) handle(ev event) error {
	if t.closed {
		return nil
	}
	switch ev.kind {
	case evOpcode:
		switch ev.opcode {
		case RequestDock:
			return t.adopt(ev.window)
		case BeginMessage, CancelMessage:
			t.log.Debug("tray balloon message ignored", "window", uint32(ev.window), "opcode", ev.opcode)
		default:
			t.log.Debug("unknown tray opcode", "opcode", ev.opcode)
		}
	case evDestroy:
		return t.forget(ev.window)
	case evReparent:
		if ev.parent != t.window {
			return t.forget(ev.window)
		}
	case evSelectionClear:
		if ev.window == t.window || ev.window == 0 {
			return t.loseSelection()
		}
	}
	return nil
}

func (t *Tray) indexOf(win xproto.Window) int {
	return slices.IndexFunc(t.children, func(c child) bool { return c.window == win })
}

// adopt docks win. Docking twice is a no-op.
func (t *Tray) adopt(win xproto.Window) error {
	if !t.owned {
		return nil
	}
	if t.indexOf(win) >= 0 {
		return nil
	}
	if err := t.conn.Embed(win, t.window); err != nil {
		if xconn.IsGone(err) {
			t.log.Debug("tray icon vanished while docking", "window", uint32(win), "err", err)
			if rerr := t.conn.Release(win); rerr != nil && !xconn.IsGone(rerr) {
				t.log.Debug("releasing half-docked icon", "window", uint32(win), "err", rerr)
			}
			return nil
		}
		return fmt.Errorf("dock icon %d: %w", win, err)
	}
	t.notifyEmbedded(win)
	t.children = append(t.children, child{window: win, width: t.iconSize})
	if len(t.children) == 1 {
		if err := t.conn.MapWindow(t.window); err != nil {
			return fmt.Errorf("map tray window: %w", err)
		}
	}
	t.log.Debug("tray icon docked", "window", uint32(win), "icons", len(t.children))
	t.report()
	return nil
}

// notifyEmbedded tells win it now lives in the tray and maps it. Failures
// only mean the icon is gone; the DestroyNotify that follows forgets it.
func (t *Tray) notifyEmbedded(win xproto.Window) {
	data := [5]uint32{xproto.TimeCurrentTime, xembedEmbeddedNotify, 0, uint32(t.window), xembedVersion}
	if err := t.conn.SendClientMessage(win, win, t.atoms.XEmbed, xproto.EventMaskNoEvent, data); err != nil {
		t.log.Debug("xembed notify failed", "window", uint32(win), "err", err)
	}
	if err := t.conn.MapWindow(win); err != nil {
		t.log.Debug("mapping tray icon failed", "window", uint32(win), "err", err)
	}
}

// forget stops tracking win. The window is not touched: it is already
// destroyed or owned by someone else.
func (t *Tray) forget(win xproto.Window) error {
	i := t.indexOf(win)
	if i < 0 {
		return nil
	}
	t.children = slices.Delete(t.children, i, i+1)
	t.log.Debug("tray icon forgotten", "window", uint32(win), "icons", len(t.children))
	t.report()
	if len(t.children) == 0 {
		if err := t.conn.UnmapWindow(t.window); err != nil {
			return fmt.Errorf("unmap tray window: %w", err)
		}
	}
	return nil
}

func (t *Tray) loseSelection() error {
	t.log.Warn("system tray selection taken by another client")
	t.owned = false
	t.releaseAll()
	if err := t.conn.UnmapWindow(t.window); err != nil && !xconn.IsGone(err) {
		return fmt.Errorf("unmap tray window: %w", err)
	}
	return nil
}

func (t *Tray) releaseAll() {
	for _, c := range t.children {
		if err := t.conn.Release(c.window); err != nil {
			t.log.Debug("releasing tray icon", "window", uint32(c.window), "err", err)
		}
	}
	t.children = nil
	t.report()
}

func (t *Tray) report() {
	if t.rec != nil {
		t.rec.TrayIcons(len(t.children))
	}
}

// Size is the icons plus the gaps between them and a one pixel border on
// each side. An empty tray keeps one pixel so it never collapses.
func (t *Tray) Size(*render.Context) (layout.Size, error) {
	n := uint32(len(t.children))
	if n == 0 {
		return layout.Static(1), nil
	}
	var w uint32
	for _, c := range t.children {
		w += c.width
	}
	return layout.Static(w + (n-1)*t.internalPadding + 2), nil
}

// Draw moves the tray window over its region and lays icons out in it.
// The canvas is unused: icons paint themselves.
func (t *Tray) Draw(_ *render.Canvas, r layout.Rect) error {
	if t.window == 0 || t.closed || !t.owned {
		return nil
	}
	x := int16(t.xOffset + int32(r.X))
	gx, gw, err := t.conn.Geometry(t.window)
	if err != nil {
		return fmt.Errorf("tray geometry: %w", err)
	}
	if gx != x || uint32(gw) != r.Width {
		if err := t.conn.MoveResize(t.window, x, t.y, uint16(r.Width), uint16(r.Height)); err != nil {
			return fmt.Errorf("fit tray window: %w", err)
		}
	}
	if err := t.conn.ClearWindow(t.window, uint16(r.Width), uint16(r.Height)); err != nil {
		return fmt.Errorf("clear tray window: %w", err)
	}

	offset := uint32(1)
	for _, c := range t.children {
		// Icons are foreign windows; a failure here only means one is gone.
		_ = t.conn.MoveResize(c.window, int16(offset), 1, uint16(t.iconSize), uint16(t.iconSize))
		offset += c.width + t.internalPadding
	}
	return nil
}

// Close undocks every icon, handing it back to the root window, destroys
// the tray window and closes the connection. It is safe to call twice.
func (t *Tray) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.releaseAll()
	var err error
	if t.window != 0 {
		if derr := t.conn.DestroyWindow(t.window); derr != nil && !xconn.IsGone(derr) {
			err = fmt.Errorf("destroy tray window: %w", derr)
		}
	}
	t.conn.Close()
	return err
}
