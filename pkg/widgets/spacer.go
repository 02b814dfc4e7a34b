package widgets

import (
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// Spacer is blank space: a fixed number of pixels, or whatever is left
// over when flexible.
type Spacer struct {
	widget.Base
	width uint32
	flex  bool
}

// NewSpacer creates a fixed-width spacer.
func NewSpacer(width uint32) *Spacer { return &Spacer{width: width} }

// NewFlexSpacer creates a spacer that absorbs free space.
func NewFlexSpacer() *Spacer { return &Spacer{flex: true} }

func (s *Spacer) Draw(*render.Canvas, layout.Rect) error { return nil }

func (s *Spacer) Size(*render.Context) (layout.Size, error) {
	if s.flex {
		return layout.Flex(), nil
	}
	return layout.Static(s.width), nil
}

func (s *Spacer) Padding() uint32 { return 0 }

func (s *Spacer) String() string { return "Spacer" }
