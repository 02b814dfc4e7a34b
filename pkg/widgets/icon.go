package widgets

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// Icon displays an image file scaled to the bar height.
type Icon struct {
	widget.Base
	path  string
	width uint32
	cfg   widget.Config
	src   image.Image
	img   image.Image
}

// NewIcon creates an icon from an image file (PNG, JPEG, GIF, BMP or
// TIFF). A zero width keeps the image's aspect ratio.
func NewIcon(path string, width uint32, cfg widget.Config) *Icon {
	return &Icon{path: path, width: width, cfg: cfg}
}

// NewIconFromImage uses an already decoded image.
func NewIconFromImage(src image.Image, width uint32, cfg widget.Config) *Icon {
	return &Icon{src: src, width: width, cfg: cfg}
}

// Setup loads the image and scales it to fit the bar.
func (i *Icon) Setup(_ context.Context, info *widget.Info) error {
	if i.src == nil {
		src, err := imaging.Open(i.path)
		if err != nil {
			return fmt.Errorf("icon %s: %w", i.path, err)
		}
		i.src = src
	}
	h := int(info.Height)
	if h <= 0 {
		return fmt.Errorf("icon: bar height is zero")
	}
	if i.width == 0 {
		i.img = imaging.Resize(i.src, 0, h, imaging.Lanczos)
	} else {
		i.img = imaging.Fit(i.src, int(i.width), h, imaging.Lanczos)
	}
	return nil
}

// Draw centres the scaled image vertically at the region's left edge.
func (i *Icon) Draw(c *render.Canvas, _ layout.Rect) error {
	if i.img == nil {
		return nil
	}
	y := (c.Height() - i.img.Bounds().Dy()) / 2
	c.DrawImage(i.img, 0, y)
	return nil
}

// Size is the configured width, or the scaled image's width.
func (i *Icon) Size(*render.Context) (layout.Size, error) {
	if i.width > 0 {
		return layout.Static(i.width), nil
	}
	if i.img == nil {
		return layout.Static(0), nil
	}
	return layout.Static(uint32(i.img.Bounds().Dx())), nil
}

func (i *Icon) Padding() uint32 { return i.cfg.Padding }

func (i *Icon) String() string { return "Icon" }
