package systray

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

// Tray opcodes carried in _NET_SYSTEM_TRAY_OPCODE client messages.
const (
	RequestDock   uint32 = 0
	BeginMessage  uint32 = 1
	CancelMessage uint32 = 2
)

// XEMBED message codes and the protocol version announced to clients.
const (
	xembedEmbeddedNotify uint32 = 0
	xembedVersion        uint32 = 0
)

type eventKind int

const (
	evOpcode eventKind = iota
	evDestroy
	evReparent
	evSelectionClear
)

func (k eventKind) String() string {
	switch k {
	case evOpcode:
		return "opcode"
	case evDestroy:
		return "destroy"
	case evReparent:
		return "reparent"
	case evSelectionClear:
		return "selection-clear"
	}
	return "unknown"
}

// event is the subset of server events the tray acts on.
type event struct {
	kind   eventKind
	opcode uint32
	window xproto.Window
	parent xproto.Window
}

// translate filters a raw server event down to a tray event.
func translate(ev xgb.Event, atoms *xconn.Atoms) (event, bool) {
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		if e.Type != atoms.NetSystemTrayOpcode || e.Format != 32 {
			return event{}, false
		}
		d := e.Data.Data32
		if len(d) < 3 {
			return event{}, false
		}
		return event{kind: evOpcode, opcode: d[1], window: xproto.Window(d[2])}, true
	case xproto.DestroyNotifyEvent:
		return event{kind: evDestroy, window: e.Window}, true
	case xproto.ReparentNotifyEvent:
		return event{kind: evReparent, window: e.Window, parent: e.Parent}, true
	case xproto.SelectionClearEvent:
		if e.Selection != atoms.NetSystemTrayS0 {
			return event{}, false
		}
		return event{kind: evSelectionClear, window: e.Owner}, true
	}
	return event{}, false
}
