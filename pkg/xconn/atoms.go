package xconn

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Atoms holds the interned atoms the bar and tray use. It is a plain struct
// so tests can build one by hand.
type Atoms struct {
	Manager                  xproto.Atom
	UTF8String               xproto.Atom
	WMName                   xproto.Atom
	NetSystemTrayOpcode      xproto.Atom
	NetSystemTrayOrientation xproto.Atom
	NetSystemTrayS0          xproto.Atom
	NetSystemTrayVisual      xproto.Atom
	NetWMName                xproto.Atom
	NetWMWindowType          xproto.Atom
	NetWMWindowTypeDock      xproto.Atom
	XEmbed                   xproto.Atom
	NetActiveWindow          xproto.Atom
}

func (a *Atoms) fields() []struct {
	name string
	dst  *xproto.Atom
} {
	return []struct {
		name string
		dst  *xproto.Atom
	}{
		{"MANAGER", &a.Manager},
		{"UTF8_STRING", &a.UTF8String},
		{"WM_NAME", &a.WMName},
		{"_NET_SYSTEM_TRAY_OPCODE", &a.NetSystemTrayOpcode},
		{"_NET_SYSTEM_TRAY_ORIENTATION", &a.NetSystemTrayOrientation},
		{"_NET_SYSTEM_TRAY_S0", &a.NetSystemTrayS0},
		{"_NET_SYSTEM_TRAY_VISUAL", &a.NetSystemTrayVisual},
		{"_NET_WM_NAME", &a.NetWMName},
		{"_NET_WM_WINDOW_TYPE", &a.NetWMWindowType},
		{"_NET_WM_WINDOW_TYPE_DOCK", &a.NetWMWindowTypeDock},
		{"_XEMBED", &a.XEmbed},
		{"_NET_ACTIVE_WINDOW", &a.NetActiveWindow},
	}
}

// Names returns the atom names in interning order.
func Names() []string {
	var a Atoms
	fs := a.fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}

var (
	atomsOnce sync.Once
	atomsVal  *Atoms
	atomsErr  error
)

// InternAtoms interns every atom once per process. Atoms are server-wide,
// so later connections to the same display reuse the first result.
func InternAtoms(X *xgb.Conn) (*Atoms, error) {
	atomsOnce.Do(func() {
		atomsVal, atomsErr = internAll(X)
	})
	return atomsVal, atomsErr
}

func internAll(X *xgb.Conn) (*Atoms, error) {
	a := &Atoms{}
	fs := a.fields()

	// Pipeline the requests, then collect replies.
	cookies := make([]xproto.InternAtomCookie, len(fs))
	for i, f := range fs {
		cookies[i] = xproto.InternAtom(X, false, uint16(len(f.name)), f.name)
	}
	for i, f := range fs {
		reply, err := cookies[i].Reply()
		if err != nil {
			return nil, fmt.Errorf("intern atom %s: %w", f.name, err)
		}
		*f.dst = reply.Atom
	}
	return a, nil
}
