package xconn

import (
	"errors"
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// CreateTrayWindow creates the unmapped tray window at the given height
// and advertises it as a horizontal dock using our visual.
func (c *Conn) CreateTrayWindow(y int16, height uint16) (xproto.Window, error) {
	win, err := c.createWindow(0, y, 1, height,
		xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		return 0, err
	}
	props := []struct {
		name  string
		prop  xproto.Atom
		typ   xproto.Atom
		value uint32
	}{
		{"_NET_SYSTEM_TRAY_VISUAL", c.atoms.NetSystemTrayVisual, xproto.AtomVisualid, uint32(c.visual)},
		{"_NET_WM_WINDOW_TYPE", c.atoms.NetWMWindowType, xproto.AtomAtom, uint32(c.atoms.NetWMWindowTypeDock)},
		{"_NET_SYSTEM_TRAY_ORIENTATION", c.atoms.NetSystemTrayOrientation, xproto.AtomCardinal, 0},
	}
	for _, p := range props {
		if err := c.setProperty32(win, p.prop, p.typ, p.value); err != nil {
			return 0, fmt.Errorf("set %s: %w", p.name, err)
		}
	}
	if err := c.setTitle(win, "systray"); err != nil {
		return 0, err
	}
	return win, nil
}

// SelectionOwner returns the current owner of sel, or 0.
func (c *Conn) SelectionOwner(sel xproto.Atom) (xproto.Window, error) {
	reply, err := xproto.GetSelectionOwner(c.X, sel).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Owner, nil
}

// SetSelectionOwner claims sel for owner.
func (c *Conn) SetSelectionOwner(owner xproto.Window, sel xproto.Atom) error {
	return xproto.SetSelectionOwnerChecked(c.X, owner, sel, xproto.TimeCurrentTime).Check()
}

// Embed reparents child under parent and selects StructureNotify on it so
// we hear when it is destroyed or taken elsewhere.
func (c *Conn) Embed(child, parent xproto.Window) error {
	if err := xproto.ReparentWindowChecked(c.X, child, parent, 0, 0).Check(); err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(c.X, child,
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{1, xproto.EventMaskStructureNotify}).Check()
}

// Release undoes Embed: the child stops reporting to us, is unmapped and
// handed back to the root window. Every step is attempted.
func (c *Conn) Release(child xproto.Window) error {
	errs := []error{
		xproto.ChangeWindowAttributesChecked(c.X, child,
			xproto.CwOverrideRedirect|xproto.CwEventMask,
			[]uint32{0, xproto.EventMaskNoEvent}).Check(),
		xproto.UnmapWindowChecked(c.X, child).Check(),
		xproto.ReparentWindowChecked(c.X, child, c.screen.Root, 0, 0).Check(),
	}
	return errors.Join(errs...)
}
