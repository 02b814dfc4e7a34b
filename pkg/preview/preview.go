// Package preview prints a rendered bar frame to the terminal, or writes
// it to disk, for running the bar without an X server.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/statusbar/pkg/terminal"
	"gitlab.com/tinyland/lab/statusbar/pkg/theme"
)

// Options controls Render.
type Options struct {
	Protocol  terminal.Protocol
	Cols      int  // target width in cells; 0 means 80
	TrueColor bool // halfblocks emit 24-bit colour instead of the 256 palette
}

// Render encodes img for the terminal. Kitty, iTerm2 and sixel go through
// go-termimg; everything else is drawn with half blocks.
func Render(img image.Image, opts Options) (string, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return "", nil
	}
	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}

	switch opts.Protocol {
	case terminal.ProtocolNone:
		return "", nil
	case terminal.ProtocolKitty:
		return renderTermimg(img, termimg.Kitty, cols)
	case terminal.ProtocolITerm2:
		return renderTermimg(img, termimg.ITerm2, cols)
	case terminal.ProtocolSixel:
		return renderTermimg(img, termimg.Sixel, cols)
	default:
		return renderHalfblocks(fit(img, cols), opts.TrueColor), nil
	}
}

// Write renders img and writes it to w followed by a newline.
func Write(w io.Writer, img image.Image, opts Options) error {
	s, err := Render(img, opts)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

// WritePNG saves img at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}

// rowsFor is the number of cell rows img occupies at cols wide, with cells
// twice as tall as they are wide.
func rowsFor(img image.Image, cols int) int {
	b := img.Bounds()
	rows := (b.Dy()*cols/b.Dx() + 1) / 2
	return max(rows, 1)
}

func renderTermimg(img image.Image, proto termimg.Protocol, cols int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("preview: cannot wrap image for %v", proto)
	}
	ti.Protocol(proto).Size(cols, rowsFor(img, cols)).Scale(termimg.ScaleFit)
	return ti.Render()
}

// fit scales img to cols pixels wide, keeping at least two pixel rows so
// every half-block cell has a top and bottom.
func fit(img image.Image, cols int) *image.NRGBA {
	h := max(rowsFor(img, cols)*2, 2)
	if img.Bounds().Dx() == cols && img.Bounds().Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, cols, h, imaging.Box)
}

// renderHalfblocks draws two pixel rows per line with U+2580: the top
// pixel is the foreground, the bottom one the background.
func renderHalfblocks(img *image.NRGBA, trueColor bool) string {
	b := img.Bounds()
	var sb strings.Builder
	sb.Grow(b.Dx() * (b.Dy() / 2) * 24)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteString("\x1b[0m\n")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.NRGBAAt(x, y)
			bot := color.NRGBA{}
			if y+1 < b.Max.Y {
				bot = img.NRGBAAt(x, y+1)
			}
			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				sb.WriteString(fg(bot, trueColor) + "\x1b[49m▄")
			case bot.A == 0:
				sb.WriteString(fg(top, trueColor) + "\x1b[49m▀")
			default:
				sb.WriteString(fg(top, trueColor) + bg(bot, trueColor) + "▀")
			}
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

func fg(c color.NRGBA, trueColor bool) string {
	if trueColor {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	}
	return fmt.Sprintf("\x1b[38;5;%dm", theme.Nearest256(opaque(c)))
}

func bg(c color.NRGBA, trueColor bool) string {
	if trueColor {
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
	}
	return fmt.Sprintf("\x1b[48;5;%dm", theme.Nearest256(opaque(c)))
}

func opaque(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
