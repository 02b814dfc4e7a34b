// Package render holds the drawing primitives widgets use: a font face
// cache for measuring and drawing text, and a Canvas clipped to a widget's
// region of the bar's frame buffer.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFont is the font used when a widget does not name one or names a
// font that cannot be resolved.
const DefaultFont = "Go"

// builtinFonts maps font names to the Go font family shipped with x/image.
var builtinFonts = map[string][]byte{
	"go":         goregular.TTF,
	"go regular": goregular.TTF,
	"go bold":    gobold.TTF,
	"go mono":    gomono.TTF,
}

type faceKey struct {
	name string
	size float64
}

// Context resolves and caches font faces. It is handed to widgets' Size
// calls and is owned by the bar's event loop; the mutex only guards the
// caches against widgets that measure from their own goroutines.
type Context struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewContext creates an empty font context.
func NewContext() *Context {
	return &Context{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a face for the named font at size pixels. Names are either a
// builtin Go font ("Go", "Go Bold", "Go Mono") or a path to a TTF/OTF file.
// Unknown names fall back to DefaultFont.
func (c *Context) Face(name string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font %q: invalid size %v", name, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{name: name, size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	parsed, err := c.loadFont(name)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q: create face: %w", name, err)
	}
	c.faces[key] = face
	return face, nil
}

// MeasureText returns the advance width of s in pixels.
func (c *Context) MeasureText(name string, size float64, s string) (uint32, error) {
	face, err := c.Face(name, size)
	if err != nil {
		return 0, err
	}
	w := font.MeasureString(face, s).Ceil()
	if w < 0 {
		w = 0
	}
	return uint32(w), nil
}

// loadFont parses (and caches) the font data for name. Caller holds c.mu.
func (c *Context) loadFont(name string) (*opentype.Font, error) {
	key := resolveName(name)
	if f, ok := c.fonts[key]; ok {
		return f, nil
	}

	var data []byte
	if builtin, ok := builtinFonts[key]; ok {
		data = builtin
	} else {
		b, err := os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("font %q: %w", name, err)
		}
		data = b
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %q: parse: %w", name, err)
	}
	c.fonts[key] = parsed
	return parsed, nil
}

// resolveName maps a configured font name to a builtin key or a file path.
func resolveName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if _, ok := builtinFonts[lower]; ok {
		return lower
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return strings.ToLower(DefaultFont)
}
