package theme

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is
// optional. Colours without an alpha component are opaque.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("theme: invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("theme: invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// Nearest256 maps c to the closest entry of the xterm 256-colour palette,
// choosing between the 6x6x6 cube (16-231) and the grey ramp (232-255).
func Nearest256(c color.RGBA) int {
	ri, gi, bi := nearestLevel(c.R), nearestLevel(c.G), nearestLevel(c.B)
	cube := 16 + 36*ri + 6*gi + bi
	cubeDist := distance(c, cubeLevels[ri], cubeLevels[gi], cubeLevels[bi])

	gray := (int(c.R) + int(c.G) + int(c.B)) / 3
	step := min(max((gray-8+5)/10, 0), 23)
	gv := 8 + step*10
	if distance(c, gv, gv, gv) < cubeDist {
		return 232 + step
	}
	return cube
}

func nearestLevel(v uint8) int {
	best, bestDist := 0, math.MaxInt
	for i, lv := range cubeLevels {
		d := int(v) - lv
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func distance(c color.RGBA, r, g, b int) float64 {
	dr := float64(int(c.R) - r)
	dg := float64(int(c.G) - g)
	db := float64(int(c.B) - b)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
