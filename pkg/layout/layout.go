// Package layout converts widget size requests into the non-overlapping
// horizontal regions of a status bar.
//
// Widgets report either a Static width (icons, fixed-format text) or Flex.
// Static widgets reserve exactly width + 2*padding; flex widgets share the
// remaining space equally. The solver runs in three passes:
//  1. Sum static widths (inflated by padding) and flex padding
//  2. Divide the remainder between flex widgets
//  3. Walk left to right assigning regions, advancing by padding
//
// Engine wraps the solver and remembers the previous result so the runtime
// can skip full redraws when only widget content (not geometry) changed.
package layout

import "image"

// Rect is a rectangle in device pixels.
type Rect struct {
	X, Y, Width, Height uint32
}

// Right returns the X coordinate of the right edge (exclusive).
func (r Rect) Right() uint32 {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() uint32 {
	return r.Y + r.Height
}

// Empty returns true if this rectangle has zero area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Overlaps reports whether r and other share at least one pixel.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.Right()), int(r.Bottom()))
}

// Size is the width a widget asks for: either Flex or Static(width).
type Size struct {
	flex  bool
	width uint32
}

// Flex returns a size that absorbs an equal share of leftover bar width.
func Flex() Size {
	return Size{flex: true}
}

// Static returns a size of exactly width pixels (padding not included).
func Static(width uint32) Size {
	return Size{width: width}
}

// IsFlex reports whether s is a flex size.
func (s Size) IsFlex() bool {
	return s.flex
}

// Width returns the static width, or 0 for flex sizes.
func (s Size) Width() uint32 {
	if s.flex {
		return 0
	}
	return s.width
}

// Or returns the static width, or flex when s is a flex size.
func (s Size) Or(flex uint32) uint32 {
	if s.flex {
		return flex
	}
	return s.width
}

// String implements fmt.Stringer.
func (s Size) String() string {
	if s.flex {
		return "Flex"
	}
	return "Static(" + itoa(s.width) + ")"
}

// Item is one widget's request to the solver.
type Item struct {
	Size    Size
	Padding uint32
}

// Compute assigns a region to every item for a bar of the given dimensions.
//
// When there are no flex items the remainder is simply left unused at the
// right edge; static widgets are never shrunk to compensate. When static
// content does not fit, flex items get zero width.
func Compute(items []Item, width, height uint32) []Rect {
	var static uint32
	flexCount := uint32(0)
	for _, it := range items {
		static += 2 * it.Padding
		if it.Size.IsFlex() {
			flexCount++
			continue
		}
		static += it.Size.Width()
	}

	remaining := satSub(width, static)
	flexSize := remaining
	var extra uint32
	if flexCount > 0 {
		flexSize = remaining / flexCount
		extra = remaining % flexCount
	}

	regions := make([]Rect, 0, len(items))
	var x uint32
	for _, it := range items {
		x += it.Padding
		w := it.Size.Or(flexSize)
		if it.Size.IsFlex() && extra > 0 {
			// Hand the division remainder out one pixel at a time so the
			// regions tile the whole bar.
			w++
			extra--
		}
		regions = append(regions, Rect{X: x, Y: 0, Width: w, Height: height})
		x += w + it.Padding
	}
	return regions
}
