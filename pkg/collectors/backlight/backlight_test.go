package backlight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors"
)

var _ collectors.Collector[Status] = Collector{}

// device creates root/name with the given attribute files.
func device(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for f, v := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(v+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollectFindsFirstDevice(t *testing.T) {
	root := t.TempDir()
	device(t, root, "intel_backlight", map[string]string{"brightness": "4800", "max_brightness": "19200"})
	device(t, root, "acpi_video0", map[string]string{"brightness": "100", "max_brightness": "100"})
	device(t, root, "stray", map[string]string{"brightness": "1"})

	st, err := Collector{Root: root}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if st.Device != "acpi_video0" || st.Percent() != 100 {
		t.Errorf("status = %+v", st)
	}
}

func TestCollectNamedDevice(t *testing.T) {
	root := t.TempDir()
	device(t, root, "intel_backlight", map[string]string{"brightness": "4800", "max_brightness": "19200"})

	st, err := Collector{Root: root, Device: "intel_backlight"}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if st.Level != 0.25 || st.Percent() != 25 {
		t.Errorf("status = %+v", st)
	}
}

func TestCollectClampsAboveMax(t *testing.T) {
	root := t.TempDir()
	device(t, root, "bl", map[string]string{"brightness": "300", "max_brightness": "255"})
	st, err := Collector{Root: root}.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Level != 1 {
		t.Errorf("Level = %v, want 1", st.Level)
	}
}

func TestCollectErrors(t *testing.T) {
	root := t.TempDir()
	if _, err := (Collector{Root: root}).Collect(context.Background()); !errors.Is(err, ErrNoBacklight) {
		t.Errorf("empty root: err = %v, want ErrNoBacklight", err)
	}
	if _, err := (Collector{Root: filepath.Join(root, "missing")}).Collect(context.Background()); !errors.Is(err, ErrNoBacklight) {
		t.Errorf("missing root: err = %v, want ErrNoBacklight", err)
	}

	device(t, root, "zero", map[string]string{"brightness": "0", "max_brightness": "0"})
	if _, err := (Collector{Root: root}).Collect(context.Background()); err == nil {
		t.Error("zero max_brightness accepted")
	}
	device(t, root, "junk", map[string]string{"brightness": "bright", "max_brightness": "10"})
	if _, err := (Collector{Root: root, Device: "junk"}).Collect(context.Background()); err == nil {
		t.Error("unparsable brightness accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Collector{Root: root}).Collect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled ctx: err = %v", err)
	}
}
