package terminal

import (
	"os"
	"strings"
)

// Protocol identifies how an image is drawn in the terminal.
type Protocol int

const (
	ProtocolNone       Protocol = iota // print nothing
	ProtocolKitty                      // Kitty graphics protocol
	ProtocolITerm2                     // iTerm2 inline images
	ProtocolSixel                      // DEC sixel
	ProtocolHalfblocks                 // U+2580 cells with ANSI colours
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

func (p Protocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol maps a user override to a protocol. ok is false for empty,
// "auto" or unknown values.
func ParseProtocol(s string) (p Protocol, ok bool) {
	switch strings.ToLower(s) {
	case "kitty":
		return ProtocolKitty, true
	case "iterm2":
		return ProtocolITerm2, true
	case "sixel":
		return ProtocolSixel, true
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, true
	case "none", "off":
		return ProtocolNone, true
	}
	return ProtocolNone, false
}

// SelectProtocol returns the override when valid, otherwise the best
// protocol for term. SSH sessions fall back to half blocks.
func SelectProtocol(term Terminal, override string) Protocol {
	if p, ok := ParseProtocol(override); ok {
		return p
	}
	if isSSH() {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
