package xconn

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// BarOptions places the bar window on the root window.
type BarOptions struct {
	X, Y          int16
	Width, Height uint16
	Title         string
}

// Bar is the dock window the status bar draws into.
type Bar struct {
	c      *Conn
	win    xproto.Window
	width  uint16
	height uint16
}

// CreateBar creates the unmapped bar window, marks it as a dock and titles
// it.
func (c *Conn) CreateBar(opts BarOptions) (*Bar, error) {
	if opts.Width == 0 {
		opts.Width = uint16(c.ScreenWidth())
	}
	win, err := c.createWindow(opts.X, opts.Y, opts.Width, opts.Height,
		xproto.EventMaskExposure|xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, widget.Transport("create bar", err)
	}
	if err := c.setProperty32(win, c.atoms.NetWMWindowType, xproto.AtomAtom, uint32(c.atoms.NetWMWindowTypeDock)); err != nil {
		return nil, widget.Transport("set window type", err)
	}
	if opts.Title != "" {
		if err := c.setTitle(win, opts.Title); err != nil {
			return nil, widget.Transport("set title", err)
		}
	}
	c.log.Debug("bar window created", "window", uint32(win), "x", opts.X, "y", opts.Y, "width", opts.Width, "height", opts.Height)
	return &Bar{c: c, win: win, width: opts.Width, height: opts.Height}, nil
}

// Window returns the bar's X window id.
func (b *Bar) Window() xproto.Window { return b.win }

// Width returns the bar width in pixels.
func (b *Bar) Width() uint32 { return uint32(b.width) }

// Height returns the bar height in pixels.
func (b *Bar) Height() uint32 { return uint32(b.height) }

// ScreenHeight returns the height of the screen the bar lives on.
func (b *Bar) ScreenHeight() uint32 { return b.c.ScreenHeight() }

// Show maps the bar window.
func (b *Bar) Show() error {
	if err := b.c.MapWindow(b.win); err != nil {
		return widget.Transport("map bar", err)
	}
	return nil
}

// Present copies r of frame onto the window, splitting the upload so no
// request exceeds the server's maximum request length.
func (b *Bar) Present(frame *image.RGBA, r image.Rectangle) error {
	r = r.Intersect(frame.Bounds())
	if r.Empty() {
		return nil
	}
	stride := r.Dx() * 4
	rows := rowsPerRequest(int(xproto.Setup(b.c.X).MaximumRequestLength), stride)
	gc := b.c.gc(b.win)

	for y := r.Min.Y; y < r.Max.Y; y += rows {
		h := min(rows, r.Max.Y-y)
		data := make([]byte, stride*h)
		for j := 0; j < h; j++ {
			off := frame.PixOffset(r.Min.X, y+j)
			toBGRA(data[j*stride:(j+1)*stride], frame.Pix[off:off+stride])
		}
		err := xproto.PutImageChecked(b.c.X, xproto.ImageFormatZPixmap, xproto.Drawable(b.win), gc,
			uint16(r.Dx()), uint16(h), int16(r.Min.X), int16(y), 0, b.c.depth, data).Check()
		if err != nil {
			return widget.Transport("put image", err)
		}
	}
	return nil
}

// Pump forwards a redraw request to out for every server event on the bar
// connection. It returns only when ctx is done or the connection dies.
func (b *Bar) Pump(ctx context.Context, out chan<- struct{}) error {
	for {
		ev, err := b.c.WaitForEvent()
		if errors.Is(err, ErrConnectionClosed) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return widget.Transport("wait for event", err)
		}
		if err != nil {
			b.c.log.Debug("bar x error", "err", err)
			continue
		}
		if ex, ok := ev.(xproto.ExposeEvent); ok && ex.Count > 0 {
			continue
		}
		select {
		case out <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close destroys the window and closes the connection.
func (b *Bar) Close() error {
	err := b.c.DestroyWindow(b.win)
	b.c.Close()
	if err != nil {
		return fmt.Errorf("destroy bar window: %w", err)
	}
	return nil
}

// rowsPerRequest returns how many rows of stride bytes fit in one PutImage
// request. maxLen is in 4-byte units.
func rowsPerRequest(maxLen, stride int) int {
	const putImageHeader = 24
	if stride <= 0 {
		return 1
	}
	rows := (maxLen*4 - putImageHeader) / stride
	if rows < 1 {
		return 1
	}
	return rows
}

// toBGRA converts premultiplied RGBA pixels to the server's BGRA byte order.
func toBGRA(dst, src []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
	}
}
