package xconn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestIsGone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("nope"), false},
		{"window", xproto.WindowError{}, true},
		{"drawable", xproto.DrawableError{}, true},
		{"match", xproto.MatchError{}, true},
		{"wrapped window", fmt.Errorf("reparent: %w", xproto.WindowError{}), true},
		{"joined", errors.Join(nil, xproto.WindowError{}), true},
		{"value", xproto.ValueError{}, false},
		{"closed", ErrConnectionClosed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGone(tt.err); got != tt.want {
				t.Errorf("IsGone(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestToBGRA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 10, 20, 30, 40}
	dst := make([]byte, len(src))
	toBGRA(dst, src)
	want := []byte{3, 2, 1, 4, 30, 20, 10, 40}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("toBGRA = %v, want %v", dst, want)
		}
	}
}

func TestRowsPerRequest(t *testing.T) {
	// 65535 units is the core protocol maximum.
	stride := 1920 * 4
	rows := rowsPerRequest(65535, stride)
	if rows < 1 {
		t.Fatalf("rows = %d", rows)
	}
	if rows*stride+24 > 65535*4 {
		t.Errorf("%d rows of %d bytes exceed the request limit", rows, stride)
	}
	if (rows+1)*stride+24 <= 65535*4 {
		t.Errorf("%d rows is not the maximum that fits", rows)
	}
	if got := rowsPerRequest(10, 1<<20); got != 1 {
		t.Errorf("oversized row gave %d rows, want 1", got)
	}
	if got := rowsPerRequest(10, 0); got != 1 {
		t.Errorf("zero stride gave %d rows, want 1", got)
	}
}

func TestAtomNames(t *testing.T) {
	names := Names()
	want := map[string]bool{
		"MANAGER": true, "UTF8_STRING": true, "WM_NAME": true,
		"_NET_SYSTEM_TRAY_OPCODE": true, "_NET_SYSTEM_TRAY_ORIENTATION": true,
		"_NET_SYSTEM_TRAY_S0": true, "_NET_SYSTEM_TRAY_VISUAL": true,
		"_NET_WM_NAME": true, "_NET_WM_WINDOW_TYPE": true,
		"_NET_WM_WINDOW_TYPE_DOCK": true, "_XEMBED": true,
		"_NET_ACTIVE_WINDOW": true,
	}
	if len(names) != len(want) {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected atom %q", n)
		}
	}
}

func TestWindowValue(t *testing.T) {
	buf := make([]byte, 4)
	xgb.Put32(buf, 0x2a00007)
	tests := []struct {
		name  string
		reply *xproto.GetPropertyReply
		want  xproto.Window
	}{
		{"nil", nil, 0},
		{"unset", &xproto.GetPropertyReply{}, 0},
		{"wrong format", &xproto.GetPropertyReply{Format: 8, Value: buf}, 0},
		{"short", &xproto.GetPropertyReply{Format: 32, Value: buf[:2]}, 0},
		{"window", &xproto.GetPropertyReply{Format: 32, Value: buf}, 0x2a00007},
	}
	for _, tt := range tests {
		if got := windowValue(tt.reply); got != tt.want {
			t.Errorf("%s: windowValue = %#x, want %#x", tt.name, got, tt.want)
		}
	}
}
