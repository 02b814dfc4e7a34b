package sysmetrics

import (
	"context"
	"testing"

	"gitlab.com/tinyland/lab/statusbar/pkg/collectors"
)

var (
	_ collectors.Collector[CPUMetrics]    = CPU{}
	_ collectors.Collector[MemoryMetrics] = Memory{}
	_ collectors.Collector[DiskMetrics]   = Disk{}
)

// --- Names ---

func TestNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CPU{}.Name(), "cpu"},
		{Memory{}.Name(), "memory"},
		{Disk{Path: "/home"}.Name(), "disk:/home"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Name() = %q, want %q", tt.got, tt.want)
		}
	}
}

// --- Integration tests (run on actual host) ---

func TestCPUCollect(t *testing.T) {
	m, err := CPU{}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if m.Total < 0 || m.Total > 100 {
		t.Errorf("Total = %f, want 0-100", m.Total)
	}
	if m.Count <= 0 {
		t.Errorf("Count = %d, want > 0", m.Count)
	}
}

func TestMemoryCollect(t *testing.T) {
	m, err := Memory{}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if m.Total == 0 {
		t.Error("Total should be > 0")
	}
	if m.Used > m.Total {
		t.Errorf("Used (%d) > Total (%d)", m.Used, m.Total)
	}
}

func TestDiskCollectRoot(t *testing.T) {
	m, err := Disk{}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if m.Path != "/" {
		t.Errorf("Path = %q, want /", m.Path)
	}
	if m.Total == 0 {
		t.Error("Total should be > 0")
	}
}

func TestDiskCollectMissingMount(t *testing.T) {
	if _, err := (Disk{Path: "/definitely/not/a/mount"}).Collect(context.Background()); err == nil {
		t.Error("expected error for a missing path")
	}
}

// --- Helpers ---

func TestRatioClamps(t *testing.T) {
	if r := (CPUMetrics{Total: 150}).Ratio(); r != 1 {
		t.Errorf("Ratio(150%%) = %v, want 1", r)
	}
	if r := (MemoryMetrics{UsedPercent: -3}).Ratio(); r != 0 {
		t.Errorf("Ratio(-3%%) = %v, want 0", r)
	}
	if r := (DiskMetrics{UsedPercent: 50}).Ratio(); r != 0.5 {
		t.Errorf("Ratio(50%%) = %v, want 0.5", r)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.0K"},
		{1536, "1.5K"},
		{3 << 30, "3.0G"},
	}
	for _, tt := range tests {
		if got := HumanBytes(tt.in); got != tt.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
