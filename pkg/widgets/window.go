package widgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/statusbar/pkg/hooks"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
	"gitlab.com/tinyland/lab/statusbar/pkg/xconn"
)

// WindowConn is the X connection ActiveWindow reads from. It must not be
// shared: ActiveWindow owns its event stream and closes it.
type WindowConn interface {
	Atoms() *xconn.Atoms
	Root() xproto.Window
	ActiveWindow() (xproto.Window, error)
	WindowTitle(win xproto.Window) (string, error)
	WatchProperties(win xproto.Window) error
	WaitForEvent() (xgb.Event, error)
	Close()
}

var _ WindowConn = (*xconn.Conn)(nil)

// ActiveWindow shows the title of the focused window. It always takes the
// flexible space, so put it between the left and right groups.
type ActiveWindow struct {
	*Text
	conn     WindowConn
	atoms    *xconn.Atoms
	maxChars int
	log      *slog.Logger

	watched xproto.Window
	closed  bool
}

// NewActiveWindow creates the widget. Titles longer than maxChars runes
// are cut with an ellipsis; zero leaves them whole.
func NewActiveWindow(conn WindowConn, maxChars int, cfg widget.Config, log *slog.Logger) *ActiveWindow {
	if log == nil {
		log = slog.Default()
	}
	cfg.Flex = true
	return &ActiveWindow{
		Text:     NewText("", cfg),
		conn:     conn,
		maxChars: maxChars,
		log:      log,
	}
}

// Setup selects property changes on the root window, where the window
// manager announces focus changes.
func (a *ActiveWindow) Setup(context.Context, *widget.Info) error {
	a.atoms = a.conn.Atoms()
	if err := a.conn.WatchProperties(a.conn.Root()); err != nil {
		return fmt.Errorf("active window: %w", err)
	}
	return nil
}

// Update reads the focused window's title. Title changes arrive on the
// window itself, so a newly focused window gets watched too.
func (a *ActiveWindow) Update(context.Context) error {
	win, err := a.conn.ActiveWindow()
	if err != nil {
		return fmt.Errorf("active window: %w", err)
	}
	if win == 0 {
		a.SetText("")
		return nil
	}
	if win != a.watched {
		if err := a.conn.WatchProperties(win); err != nil && !xconn.IsGone(err) {
			return fmt.Errorf("active window: %w", err)
		}
		a.watched = win
	}
	title, err := a.conn.WindowTitle(win)
	if xconn.IsGone(err) {
		a.SetText("")
		return nil
	}
	if err != nil {
		return fmt.Errorf("active window title: %w", err)
	}
	a.SetText(truncate(title, a.maxChars))
	return nil
}

// Hook wakes the widget on focus and title changes.
func (a *ActiveWindow) Hook(ctx context.Context, sender hooks.Sender, _ *hooks.TimedHooks) error {
	go a.listen(ctx, sender)
	return nil
}

func (a *ActiveWindow) listen(ctx context.Context, sender hooks.Sender) {
	for {
		ev, err := a.conn.WaitForEvent()
		if errors.Is(err, xconn.ErrConnectionClosed) {
			return
		}
		if err != nil {
			// Usually BadWindow for a window that closed while watched.
			a.log.Debug("active window x error", "err", err)
			continue
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || !a.relevant(pn.Atom) {
			continue
		}
		if err := sender.Send(ctx); err != nil {
			return
		}
	}
}

func (a *ActiveWindow) relevant(atom xproto.Atom) bool {
	if a.atoms == nil {
		return false
	}
	return atom == a.atoms.NetActiveWindow || atom == a.atoms.NetWMName || atom == a.atoms.WMName
}

// Close closes the X connection, which also ends the listener.
func (a *ActiveWindow) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.conn.Close()
	return nil
}

func (a *ActiveWindow) String() string { return "ActiveWindow" }

// truncate cuts s to n runes, the last being an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
