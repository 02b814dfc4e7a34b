package systray

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

// Conn is the slice of the X transport the tray needs. The tray owns its
// Conn and closes it on shutdown. *xconn.Conn implements it.
type Conn interface {
	Atoms() *xconn.Atoms
	Root() xproto.Window

	CreateTrayWindow(y int16, height uint16) (xproto.Window, error)
	DestroyWindow(win xproto.Window) error
	StackAbove(win, sibling xproto.Window) error
	MapWindow(win xproto.Window) error
	UnmapWindow(win xproto.Window) error
	MoveResize(win xproto.Window, x, y int16, width, height uint16) error
	Geometry(win xproto.Window) (x int16, width uint16, err error)
	ClearWindow(win xproto.Window, width, height uint16) error

	SelectionOwner(sel xproto.Atom) (xproto.Window, error)
	SetSelectionOwner(owner xproto.Window, sel xproto.Atom) error
	SendClientMessage(dest, win xproto.Window, typ xproto.Atom, mask uint32, data [5]uint32) error

	Embed(child, parent xproto.Window) error
	Release(child xproto.Window) error

	WaitForEvent() (xgb.Event, error)
	Close()
}

var _ Conn = (*xconn.Conn)(nil)
