package render

import (
	"image"
	"image/color"
	"testing"
)

func TestFaceCachesByNameAndSize(t *testing.T) {
	c := NewContext()
	a, err := c.Face("Go", 12)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	b, err := c.Face("Go", 12)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if a != b {
		t.Error("Face should return the cached face for the same name and size")
	}
}

func TestFaceInvalidSize(t *testing.T) {
	if _, err := NewContext().Face("Go", 0); err == nil {
		t.Fatal("Face with size 0 should fail")
	}
}

func TestFaceUnknownFallsBackToDefault(t *testing.T) {
	if _, err := NewContext().Face("DejaVu Sans", 14); err != nil {
		t.Fatalf("unknown font names should fall back to the default font, got %v", err)
	}
}

func TestMeasureText(t *testing.T) {
	c := NewContext()
	empty, err := c.MeasureText("Go", 14, "")
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if empty != 0 {
		t.Errorf("MeasureText(\"\") = %d, want 0", empty)
	}
	short, _ := c.MeasureText("Go", 14, "ab")
	long, _ := c.MeasureText("Go", 14, "abcdef")
	if short == 0 || long <= short {
		t.Errorf("MeasureText widths short=%d long=%d, want 0 < short < long", short, long)
	}
}

func TestCanvasClipsToRegion(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 10))
	c := NewCanvas(frame, image.Rect(20, 0, 40, 10))
	c.Fill(color.RGBA{R: 255, A: 255})

	if got := frame.RGBAAt(25, 5); got.R != 255 {
		t.Errorf("pixel inside region = %v, want red", got)
	}
	if got := frame.RGBAAt(10, 5); got.A != 0 {
		t.Errorf("pixel left of region = %v, want untouched", got)
	}
	if got := frame.RGBAAt(45, 5); got.A != 0 {
		t.Errorf("pixel right of region = %v, want untouched", got)
	}
}

func TestCanvasRelativeCoordinates(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 10))
	c := NewCanvas(frame, image.Rect(50, 0, 60, 10))
	c.FillRect(image.Rect(0, 0, 2, 2), color.RGBA{G: 255, A: 255})
	if got := frame.RGBAAt(50, 0); got.G != 255 {
		t.Errorf("FillRect at relative origin drew %v at (50,0), want green", got)
	}
	if c.Width() != 10 || c.Height() != 10 {
		t.Errorf("canvas size = %dx%d, want 10x10", c.Width(), c.Height())
	}
}

func TestCanvasClear(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	NewCanvas(frame, frame.Bounds()).Fill(color.White)
	NewCanvas(frame, image.Rect(0, 0, 5, 10)).Clear()
	if frame.RGBAAt(2, 2).A != 0 {
		t.Error("Clear should make the region transparent")
	}
	if frame.RGBAAt(7, 2).A != 255 {
		t.Error("Clear should not touch pixels outside the region")
	}
}

func TestDrawTextAdvances(t *testing.T) {
	ctx := NewContext()
	face, err := ctx.Face("Go", 12)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	frame := image.NewRGBA(image.Rect(0, 0, 200, 20))
	c := NewCanvas(frame, frame.Bounds())
	adv := c.DrawText(face, "hello", 0, color.White)
	want, _ := ctx.MeasureText("Go", 12, "hello")
	if uint32(adv) != want {
		t.Errorf("DrawText advance = %d, want %d", adv, want)
	}

	var painted bool
	for x := 0; x < 200 && !painted; x++ {
		for y := 0; y < 20; y++ {
			if frame.RGBAAt(x, y).A != 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("DrawText painted nothing")
	}
}
