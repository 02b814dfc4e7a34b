package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

type recordedCall struct {
	method string
	args   []interface{}
}

type fakeBus struct {
	calls []recordedCall
	ids   []uint32
	err   error
}

func (f *fakeBus) CallWithContext(_ context.Context, m string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: m, args: args})
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	id := f.ids[0]
	f.ids = f.ids[1:]
	return &dbus.Call{Body: []interface{}{id}}
}

func TestNotifySendsArguments(t *testing.T) {
	bus := &fakeBus{ids: []uint32{7}}
	d := &DBus{app: "statusbar", obj: bus}

	err := d.Notify(context.Background(), Notification{
		Summary: "Battery low",
		Body:    "9% remaining",
		Icon:    "battery-caution",
		Urgency: Critical,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(bus.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(bus.calls))
	}
	c := bus.calls[0]
	if c.method != "org.freedesktop.Notifications.Notify" {
		t.Errorf("method = %q", c.method)
	}
	if len(c.args) != 8 {
		t.Fatalf("args = %d, want 8", len(c.args))
	}
	if c.args[0] != "statusbar" || c.args[1] != uint32(0) || c.args[3] != "Battery low" {
		t.Errorf("args = %v", c.args)
	}
	hints := c.args[6].(map[string]dbus.Variant)
	if v := hints["urgency"].Value(); v != byte(Critical) {
		t.Errorf("urgency = %v", v)
	}
	if c.args[7] != int32(5000) {
		t.Errorf("timeout = %v, want 5000", c.args[7])
	}
}

func TestNotifyReplacesPrevious(t *testing.T) {
	bus := &fakeBus{ids: []uint32{7, 7}}
	d := &DBus{app: "statusbar", obj: bus}

	for i := 0; i < 2; i++ {
		if err := d.Notify(context.Background(), Notification{Summary: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := bus.calls[1].args[1]; got != uint32(7) {
		t.Errorf("replaces_id = %v, want 7", got)
	}
	if got := bus.calls[0].args[7]; got != int32(-1) {
		t.Errorf("default timeout = %v, want -1", got)
	}
}

func TestNotifyError(t *testing.T) {
	boom := errors.New("no server")
	d := &DBus{app: "statusbar", obj: &fakeBus{err: boom}}
	if err := d.Notify(context.Background(), Notification{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped server error", err)
	}
}

func TestNopAndClose(t *testing.T) {
	var n Notifier = Nop{}
	if err := n.Notify(context.Background(), Notification{}); err != nil {
		t.Errorf("Nop.Notify: %v", err)
	}
	if err := (&DBus{}).Close(); err != nil {
		t.Errorf("Close without connection: %v", err)
	}
}
