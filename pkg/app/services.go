package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"

	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// errPumpEnded is reported when a display stops pumping without an error.
var errPumpEnded = errors.New("display event stream ended")

// pumpService relays display events to the loop. A pump that dies takes
// the bar with it: the error goes to fatal and the service is not
// restarted.
type pumpService struct {
	display Display
	out     chan<- struct{}
	fatal   chan<- error
}

func (p pumpService) Serve(ctx context.Context) error {
	err := p.display.Pump(ctx, p.out)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = widget.Transport("pump", errPumpEnded)
	}
	select {
	case p.fatal <- err:
	default:
	}
	return suture.ErrDoNotRestart
}

func (p pumpService) String() string { return "display-pump" }

// newSupervisor builds the supervisor for background services, logging its
// events through log.
func newSupervisor(log *slog.Logger) *suture.Supervisor {
	return suture.New("statusbar", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Warn("supervisor event", "event", e.String())
		},
	})
}
