// Package terminal detects the terminal the bar was started from, so that
// -preview can pick an inline image protocol and a size for the frame.
package terminal

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermAlacritty
	TermVTE // GNOME Terminal, Tilix and other VTE-based terminals
	TermTmux
	TermScreen
	TermGeneric
)

var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermVTE:       "vte",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermGeneric:   "generic",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal renders 24-bit colour.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2, TermAlacritty, TermVTE:
		return true
	default:
		return os.Getenv("COLORTERM") == "truecolor" || os.Getenv("COLORTERM") == "24bit"
	}
}

// Detect identifies the terminal emulator from environment variables,
// most reliable signal first: TERM_PROGRAM, TERM, emulator-specific
// variables, VTE_VERSION, then multiplexers.
func Detect() Terminal {
	switch strings.ToLower(os.Getenv("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	case "alacritty":
		return TermAlacritty
	case "tmux":
		return TermTmux
	}

	term := os.Getenv("TERM")
	switch {
	case term == "xterm-ghostty":
		return TermGhostty
	case term == "xterm-kitty":
		return TermKitty
	case strings.HasPrefix(term, "alacritty"):
		return TermAlacritty
	}

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return TermKitty
	case os.Getenv("ITERM_SESSION_ID") != "", os.Getenv("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	case os.Getenv("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case os.Getenv("VTE_VERSION") != "":
		return TermVTE
	case os.Getenv("TMUX") != "":
		return TermTmux
	case os.Getenv("STY") != "":
		return TermScreen
	}
	return TermGeneric
}

// Capabilities summarises what -preview may use.
type Capabilities struct {
	Term      Terminal
	Protocol  Protocol
	Size      Size
	TrueColor bool
	TTY       bool
}

// Inspect detects the terminal behind fd. override forces a protocol (see
// ParseProtocol); empty means auto.
func Inspect(fd uintptr, override string) Capabilities {
	term := Detect()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	proto := SelectProtocol(term, override)
	if !tty && override == "" {
		proto = ProtocolNone
	}
	return Capabilities{
		Term:      term,
		Protocol:  proto,
		Size:      GetSizeFromFd(fd),
		TrueColor: term.SupportsTrueColor(),
		TTY:       tty,
	}
}
