package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Size is the terminal size in cells and, when the terminal reports it,
// pixels.
type Size struct {
	Cols   int
	Rows   int
	PixelW int
	PixelH int
	CellW  int
	CellH  int
}

// GetSizeFromFd asks fd for its window size, falling back to COLUMNS/LINES
// and then 80x24.
func GetSizeFromFd(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		s := Size{
			Cols:   int(ws.Col),
			Rows:   int(ws.Row),
			PixelW: int(ws.Xpixel),
			PixelH: int(ws.Ypixel),
		}
		if s.PixelW > 0 {
			s.CellW = s.PixelW / s.Cols
		}
		if s.PixelH > 0 {
			s.CellH = s.PixelH / s.Rows
		}
		return s
	}
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

// envInt reads a positive integer from the environment.
func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
