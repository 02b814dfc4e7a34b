package app

import (
	"image"
	"image/draw"

	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
)

// relayout recomputes regions from current widget sizes and reports
// whether they changed.
func (b *Bar) relayout() bool {
	items := make([]layout.Item, len(b.widgets))
	for i, w := range b.widgets {
		items[i] = layout.Item{Size: w.SizeOrReplace(b.rc), Padding: w.Padding()}
	}
	regions, changed := b.engine.Relayout(items, b.display.Width(), b.display.Height())
	b.regions = regions
	b.rec.Relayout(changed)
	return changed
}

func (b *Bar) checkRegions() {
	if len(b.regions) != len(b.widgets) {
		panic("app: regions and widgets length mismatch")
	}
}

// paintAll draws every widget into the scratch buffer. It reports whether
// a widget was replaced while drawing.
func (b *Bar) paintAll() bool {
	b.checkRegions()
	draw.Draw(b.scratch, b.scratch.Bounds(), image.Transparent, image.Point{}, draw.Src)
	replaced := false
	for i, w := range b.widgets {
		r := b.regions[i]
		if r.Empty() {
			continue
		}
		c := render.NewCanvas(b.scratch, r.Image())
		if w.DrawOrReplace(c, r) {
			replaced = true
		}
	}
	return replaced
}

// compose paints r of the frame: clear, background, then scratch on top.
func (b *Bar) compose(r image.Rectangle) {
	draw.Draw(b.frame, r, image.Transparent, image.Point{}, draw.Src)
	draw.Draw(b.frame, r, image.NewUniform(b.background), image.Point{}, draw.Over)
	draw.Draw(b.frame, r, b.scratch, r.Min, draw.Over)
}

// drawFull repaints the whole bar. A widget replaced mid-draw changes the
// layout, so the pass restarts on the new regions; placeholders never fail
// so this terminates.
func (b *Bar) drawFull() error {
	for b.paintAll() {
		b.relayout()
	}
	b.compose(b.frame.Bounds())
	if err := b.display.Present(b.frame, b.frame.Bounds()); err != nil {
		return err
	}
	b.rec.Redraw(RedrawFull)
	return nil
}

// drawPartial repaints only widget i's region.
func (b *Bar) drawPartial(i int) error {
	b.checkRegions()
	r := b.regions[i]
	if r.Empty() {
		return nil
	}
	c := render.NewCanvas(b.scratch, r.Image())
	c.Clear()
	if b.widgets[i].DrawOrReplace(c, r) {
		b.relayout()
		return b.drawFull()
	}
	b.compose(r.Image())
	if err := b.display.Present(b.frame, r.Image()); err != nil {
		return err
	}
	b.rec.Redraw(RedrawPartial)
	return nil
}
