package xconn

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// maxTitleLen caps how much of a title property is fetched, in bytes.
const maxTitleLen = 1024

// ActiveWindow returns the window _NET_ACTIVE_WINDOW on the root names, or
// 0 when nothing has focus or the window manager does not set it.
func (c *Conn) ActiveWindow() (xproto.Window, error) {
	reply, err := xproto.GetProperty(c.X, false, c.Root(), c.atoms.NetActiveWindow,
		xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return 0, fmt.Errorf("get _NET_ACTIVE_WINDOW: %w", err)
	}
	return windowValue(reply), nil
}

// WindowTitle returns win's _NET_WM_NAME, falling back to WM_NAME.
func (c *Conn) WindowTitle(win xproto.Window) (string, error) {
	title, err := c.stringProperty(win, c.atoms.NetWMName, c.atoms.UTF8String)
	if err != nil || title != "" {
		return title, err
	}
	return c.stringProperty(win, xproto.AtomWmName, xproto.GetPropertyTypeAny)
}

// WatchProperties asks for PropertyNotify events on win. Selecting on a
// foreign window adds to its event mask for this connection only.
func (c *Conn) WatchProperties(win xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.X, win, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
}

func (c *Conn) stringProperty(win xproto.Window, prop, typ xproto.Atom) (string, error) {
	reply, err := xproto.GetProperty(c.X, false, win, prop, typ, 0, maxTitleLen/4).Reply()
	if err != nil {
		return "", err
	}
	if reply == nil || reply.Format != 8 {
		return "", nil
	}
	return string(reply.Value), nil
}

func windowValue(reply *xproto.GetPropertyReply) xproto.Window {
	if reply == nil || reply.Format != 32 || len(reply.Value) < 4 {
		return 0
	}
	return xproto.Window(xgb.Get32(reply.Value))
}
