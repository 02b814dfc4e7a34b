// Package notify sends desktop notifications over the freedesktop
// org.freedesktop.Notifications D-Bus interface.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	method     = busName + ".Notify"
)

// Urgency levels as defined by org.freedesktop.Notifications.
type Urgency byte

const (
	Low Urgency = iota
	Normal
	Critical
)

// Notification is one message.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Urgency Urgency
	// Timeout of zero lets the server decide.
	Timeout time.Duration
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Nop drops every notification.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Notification) error { return nil }

// caller is the part of dbus.BusObject used here.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBus posts notifications on the session bus. Repeated notifications
// replace the previous one instead of stacking.
type DBus struct {
	app string
	obj caller

	mu     sync.Mutex
	lastID uint32
	conn   *dbus.Conn
}

// Connect opens the session bus.
func Connect(app string) (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("notify: connect session bus: %w", err)
	}
	d := New(conn, app)
	d.conn = conn
	return d, nil
}

// New uses an existing bus connection, which the caller keeps ownership of.
func New(conn *dbus.Conn, app string) *DBus {
	return &DBus{app: app, obj: conn.Object(busName, objectPath)}
}

// Notify sends n, replacing the previous notification from d.
func (d *DBus) Notify(ctx context.Context, n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}
	timeout := int32(-1)
	if n.Timeout > 0 {
		timeout = int32(n.Timeout / time.Millisecond)
	}
	call := d.obj.CallWithContext(ctx, method, 0,
		d.app, d.lastID, n.Icon, n.Summary, n.Body, []string{}, hints, timeout)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify: reply: %w", err)
	}
	d.lastID = id
	return nil
}

// Close closes the bus connection if Connect opened it.
func (d *DBus) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
