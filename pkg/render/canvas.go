package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a drawing surface clipped to one region of a frame buffer.
// Coordinates passed to Canvas methods are relative to the region's
// top-left corner.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a canvas over the part of dst inside r.
func NewCanvas(dst *image.RGBA, r image.Rectangle) *Canvas {
	sub, _ := dst.SubImage(r.Intersect(dst.Bounds())).(*image.RGBA)
	return &Canvas{img: sub}
}

// Image returns the clipped backing image. Its bounds are in frame
// coordinates.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas region in frame coordinates.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.img.Bounds().Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.img.Bounds().Dy()
}

// Clear makes the whole canvas fully transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill paints the whole canvas with col, blending over existing content.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Over)
}

// FillRect paints the relative rectangle r with col.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	r = r.Add(c.img.Bounds().Min).Intersect(c.img.Bounds())
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// DrawImage composites src with its top-left corner at (x, y).
func (c *Canvas) DrawImage(src image.Image, x, y int) {
	min := c.img.Bounds().Min.Add(image.Pt(x, y))
	r := image.Rectangle{Min: min, Max: min.Add(src.Bounds().Size())}
	draw.Draw(c.img, r, src, src.Bounds().Min, draw.Over)
}

// DrawText draws s starting at relative x, vertically centred in the
// canvas. It returns the advance width in pixels.
func (c *Canvas) DrawText(face font.Face, s string, x int, col color.Color) int {
	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	baseline := (c.Height()-textH)/2 + m.Ascent.Ceil()

	b := c.img.Bounds()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(b.Min.X+x, b.Min.Y+baseline),
	}
	start := d.Dot.X
	d.DrawString(s)
	return (d.Dot.X - start).Ceil()
}
