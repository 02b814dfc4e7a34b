package widget

import (
	"errors"
	"fmt"
)

// Kind classifies failures crossing the runtime boundary.
type Kind int

const (
	// KindWidget is a lifecycle call that failed inside a widget.
	KindWidget Kind = iota
	// KindRace is a foreign window that vanished mid-operation.
	KindRace
	// KindTransport is a failure talking to the display server at all.
	KindTransport
	// KindCustom is an opaque error defined by a widget author.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindWidget:
		return "widget"
	case KindRace:
		return "race"
	case KindTransport:
		return "transport"
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

// Error is the single error type used at the runtime boundary.
type Error struct {
	Kind   Kind
	Op     string
	Widget string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Widget != "" && e.Op != "":
		return fmt.Sprintf("%s %s: %v", e.Widget, e.Op, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Custom wraps an arbitrary widget-defined failure.
func Custom(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindCustom, Err: err}
}

// Transport marks err as a fatal display-server failure.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// Wrap attaches the widget name and lifecycle op to err. An existing *Error
// keeps its Kind.
func Wrap(name, op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindWidget
	var we *Error
	if errors.As(err, &we) {
		kind = we.Kind
	}
	return &Error{Kind: kind, Op: op, Widget: name, Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or
// KindWidget for plain errors.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindWidget
}

// IsTransport reports whether err is a fatal transport failure.
func IsTransport(err error) bool {
	return err != nil && KindOf(err) == KindTransport
}
