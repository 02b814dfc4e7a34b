// Package xconn is the X11 transport: it opens display connections, creates
// the 32-bit ARGB windows the bar and tray draw into, pushes frames with
// PutImage and pumps server events.
package xconn

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// ErrConnectionClosed is returned once the server connection is gone.
var ErrConnectionClosed = errors.New("xconn: connection closed")

// IsGone reports whether err is the server telling us a foreign window
// vanished under us: BadWindow, BadDrawable or BadMatch.
func IsGone(err error) bool {
	if err == nil {
		return false
	}
	var (
		we xproto.WindowError
		de xproto.DrawableError
		me xproto.MatchError
	)
	return errors.As(err, &we) || errors.As(err, &de) || errors.As(err, &me)
}

// Conn is one connection to the X server. It is safe for concurrent use;
// events must be read by a single goroutine.
type Conn struct {
	X      *xgb.Conn
	screen *xproto.ScreenInfo
	atoms  *Atoms
	visual xproto.Visualid
	depth  byte
	log    *slog.Logger

	mu  sync.Mutex
	gcs map[xproto.Window]xproto.Gcontext
}

// Open connects to $DISPLAY.
func Open(log *slog.Logger) (*Conn, error) {
	if log == nil {
		log = slog.Default()
	}
	X, err := xgb.NewConn()
	if err != nil {
		return nil, widget.Transport("connect", err)
	}
	c := &Conn{
		X:      X,
		screen: xproto.Setup(X).DefaultScreen(X),
		log:    log,
		gcs:    make(map[xproto.Window]xproto.Gcontext),
	}
	c.atoms, err = InternAtoms(X)
	if err != nil {
		X.Close()
		return nil, widget.Transport("intern atoms", err)
	}
	c.visual, c.depth = findARGBVisual(c.screen)
	if c.depth != 32 {
		log.Warn("no 32-bit TrueColor visual, transparency disabled", "depth", c.depth)
	}
	return c, nil
}

func findARGBVisual(s *xproto.ScreenInfo) (xproto.Visualid, byte) {
	for _, d := range s.AllowedDepths {
		if d.Depth != 32 {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				return v.VisualId, d.Depth
			}
		}
	}
	return s.RootVisual, s.RootDepth
}

// Atoms returns the interned atoms.
func (c *Conn) Atoms() *Atoms {
	return c.atoms
}

// Root returns the root window of the default screen.
func (c *Conn) Root() xproto.Window {
	return c.screen.Root
}

// ScreenWidth returns the default screen's width in pixels.
func (c *Conn) ScreenWidth() uint32 {
	return uint32(c.screen.WidthInPixels)
}

// ScreenHeight returns the default screen's height in pixels.
func (c *Conn) ScreenHeight() uint32 {
	return uint32(c.screen.HeightInPixels)
}

// Depth returns the depth windows are created with.
func (c *Conn) Depth() byte {
	return c.depth
}

// WaitForEvent blocks for the next event. Protocol errors from unchecked
// requests come back as err with a nil event.
func (c *Conn) WaitForEvent() (xgb.Event, error) {
	ev, err := c.X.WaitForEvent()
	if ev == nil && err == nil {
		return nil, ErrConnectionClosed
	}
	return ev, err
}

// Close frees graphics contexts and closes the connection.
func (c *Conn) Close() {
	c.mu.Lock()
	for _, gc := range c.gcs {
		xproto.FreeGC(c.X, gc)
	}
	c.gcs = map[xproto.Window]xproto.Gcontext{}
	c.mu.Unlock()
	c.X.Close()
}

// createWindow creates an unmapped top-level window using the ARGB visual
// when one exists.
func (c *Conn) createWindow(x, y int16, width, height uint16, eventMask uint32) (xproto.Window, error) {
	win, err := xproto.NewWindowId(c.X)
	if err != nil {
		return 0, fmt.Errorf("allocate window id: %w", err)
	}

	mask := uint32(xproto.CwBackPixmap | xproto.CwBorderPixel | xproto.CwEventMask)
	values := []uint32{xproto.BackPixmapNone, c.screen.BlackPixel, eventMask}

	if c.visual != c.screen.RootVisual {
		cmap, err := xproto.NewColormapId(c.X)
		if err != nil {
			return 0, fmt.Errorf("allocate colormap id: %w", err)
		}
		if err := xproto.CreateColormapChecked(c.X, xproto.ColormapAllocNone, cmap, c.screen.Root, c.visual).Check(); err != nil {
			return 0, fmt.Errorf("create colormap: %w", err)
		}
		mask |= xproto.CwColormap
		values = append(values, uint32(cmap))
	}

	err = xproto.CreateWindowChecked(c.X, c.depth, win, c.screen.Root,
		x, y, width, height, 0,
		xproto.WindowClassInputOutput, c.visual, mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}

	gc, err := xproto.NewGcontextId(c.X)
	if err != nil {
		return 0, fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(c.X, gc, xproto.Drawable(win),
		xproto.GcForeground|xproto.GcGraphicsExposures, []uint32{0, 0}).Check()
	if err != nil {
		return 0, fmt.Errorf("create gc: %w", err)
	}
	c.mu.Lock()
	c.gcs[win] = gc
	c.mu.Unlock()
	return win, nil
}

func (c *Conn) gc(win xproto.Window) xproto.Gcontext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gcs[win]
}

func (c *Conn) setProperty32(win xproto.Window, prop, typ xproto.Atom, values ...uint32) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(buf[i*4:], v)
	}
	return xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, win, prop, typ,
		32, uint32(len(values)), buf).Check()
}

// setTitle sets both WM_NAME and _NET_WM_NAME.
func (c *Conn) setTitle(win xproto.Window, title string) error {
	err := xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, win,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title)).Check()
	if err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	err = xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, win,
		c.atoms.NetWMName, c.atoms.UTF8String, 8, uint32(len(title)), []byte(title)).Check()
	if err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	return nil
}

// MapWindow maps win.
func (c *Conn) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(c.X, win).Check()
}

// UnmapWindow unmaps win.
func (c *Conn) UnmapWindow(win xproto.Window) error {
	return xproto.UnmapWindowChecked(c.X, win).Check()
}

// DestroyWindow destroys win and its graphics context.
func (c *Conn) DestroyWindow(win xproto.Window) error {
	c.mu.Lock()
	if gc, ok := c.gcs[win]; ok {
		xproto.FreeGC(c.X, gc)
		delete(c.gcs, win)
	}
	c.mu.Unlock()
	return xproto.DestroyWindowChecked(c.X, win).Check()
}

// MoveResize sets a window's position and size.
func (c *Conn) MoveResize(win xproto.Window, x, y int16, width, height uint16) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return xproto.ConfigureWindowChecked(c.X, win, mask, []uint32{
		uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height),
	}).Check()
}

// StackAbove restacks win directly above sibling.
func (c *Conn) StackAbove(win, sibling xproto.Window) error {
	mask := uint16(xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	return xproto.ConfigureWindowChecked(c.X, win, mask, []uint32{
		uint32(sibling), xproto.StackModeAbove,
	}).Check()
}

// Geometry returns a window's x position and width.
func (c *Conn) Geometry(win xproto.Window) (x int16, width uint16, err error) {
	reply, err := xproto.GetGeometry(c.X, xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return reply.X, reply.Width, nil
}

// ClearWindow fills the window with transparent black.
func (c *Conn) ClearWindow(win xproto.Window, width, height uint16) error {
	return xproto.PolyFillRectangleChecked(c.X, xproto.Drawable(win), c.gc(win),
		[]xproto.Rectangle{{X: 0, Y: 0, Width: width, Height: height}}).Check()
}

// SendClientMessage sends a 32-bit client message about win to dest.
func (c *Conn) SendClientMessage(dest, win xproto.Window, typ xproto.Atom, mask uint32, data [5]uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return xproto.SendEventChecked(c.X, false, dest, mask, string(ev.Bytes())).Check()
}
