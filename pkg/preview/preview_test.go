package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/statusbar/pkg/terminal"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// --- Halfblocks ---

func TestHalfblocksTrueColor(t *testing.T) {
	img := solid(4, 2, color.RGBA{R: 255, A: 255})
	out, err := Render(img, Options{Protocol: terminal.ProtocolHalfblocks, Cols: 4, TrueColor: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "▀"); got != 4 {
		t.Errorf("got %d half blocks, want 4", got)
	}
	if !strings.Contains(out, "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m") {
		t.Errorf("missing truecolor escapes: %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Error("output does not reset attributes")
	}
}

func TestHalfblocks256(t *testing.T) {
	img := solid(2, 2, color.RGBA{R: 255, A: 255})
	out, err := Render(img, Options{Protocol: terminal.ProtocolHalfblocks, Cols: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\x1b[38;5;196m") || !strings.Contains(out, "\x1b[48;5;196m") {
		t.Errorf("expected palette index 196: %q", out)
	}
}

func TestHalfblocksScalesToCols(t *testing.T) {
	// A 200x20 bar at 40 columns keeps its 10:1 aspect: 4 pixel rows, 2 lines.
	img := solid(200, 20, color.RGBA{G: 255, A: 255})
	out, err := Render(img, Options{Protocol: terminal.ProtocolHalfblocks, Cols: 40, TrueColor: true})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := strings.Count(lines[0], "▀"); got != 40 {
		t.Errorf("first line has %d cells, want 40", got)
	}
}

func TestHalfblocksTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	out, err := Render(img, Options{Protocol: terminal.ProtocolHalfblocks, Cols: 3})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "▀") || strings.Count(out, " ") != 3 {
		t.Errorf("transparent frame rendered as %q", out)
	}
}

func TestRenderEmptyAndNone(t *testing.T) {
	out, err := Render(image.NewRGBA(image.Rect(0, 0, 0, 0)), Options{Protocol: terminal.ProtocolHalfblocks})
	if err != nil || out != "" {
		t.Errorf("empty image = %q, %v", out, err)
	}
	out, err = Render(solid(4, 4, color.RGBA{A: 255}), Options{Protocol: terminal.ProtocolNone})
	if err != nil || out != "" {
		t.Errorf("ProtocolNone = %q, %v", out, err)
	}
}

func TestRowsFor(t *testing.T) {
	tests := []struct {
		w, h, cols, want int
	}{
		{1920, 21, 80, 1},
		{100, 100, 10, 5},
		{10, 100, 10, 50},
		{100, 1, 10, 1},
	}
	for _, tt := range tests {
		if got := rowsFor(image.Rect(0, 0, tt.w, tt.h), tt.cols); got != tt.want {
			t.Errorf("rowsFor(%dx%d, %d) = %d, want %d", tt.w, tt.h, tt.cols, got, tt.want)
		}
	}
}

// --- Output ---

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, solid(2, 2, color.RGBA{B: 255, A: 255}), Options{Protocol: terminal.ProtocolHalfblocks, Cols: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\x1b[0m\n") {
		t.Errorf("Write output = %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, solid(2, 2, color.RGBA{A: 255}), Options{Protocol: terminal.ProtocolNone}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("ProtocolNone wrote %q", buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.png")
	src := solid(6, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if err := WritePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	if r, g, b, _ := img.At(5, 2).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "missing", "bar.png"), solid(1, 1, color.RGBA{A: 255}))
	if err == nil || !strings.Contains(err.Error(), "snapshot") {
		t.Errorf("err = %v", err)
	}
}
