package uprobe

import (
	"fmt"

	"github.com/openheadend/upipe-go/internal/logging"
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Stdio formats and logs events at or above a configured level,
// masking clock-ref/clock-ts and unknown (module-local) events by
// default — the exact default mask uprobe_log.c ships with — and
// exposing MaskEvent/UnmaskEvent to change it at runtime.
type Stdio struct {
	Base
	logger        *logging.Logger
	masked        map[uevent.Event]bool
	maskUnknown   bool
}

// NewStdio creates a stdio probe writing through the given logger (or
// the process default if nil).
func NewStdio(logger *logging.Logger) *Stdio {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stdio{
		logger: logger,
		masked: map[uevent.Event]bool{
			uevent.EventClockRef: true,
			uevent.EventClockTs:  true,
		},
		maskUnknown: true,
	}
}

// MaskEvent suppresses logging for the given event.
func (s *Stdio) MaskEvent(e uevent.Event) { s.masked[e] = true }

// UnmaskEvent re-enables logging for the given event.
func (s *Stdio) UnmaskEvent(e uevent.Event) { delete(s.masked, e) }

// MaskUnknownEvents suppresses logging of module-local (EventLocal)
// events with no specific case below.
func (s *Stdio) MaskUnknownEvents()   { s.maskUnknown = true }
func (s *Stdio) UnmaskUnknownEvents() { s.maskUnknown = false }

func (s *Stdio) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if s.masked[event] {
		return s.ThrowNext(pipe, event, sig, args...)
	}

	switch event {
	case uevent.EventReady:
		s.logger.Info("pipe ready")
	case uevent.EventDead:
		s.logger.Info("pipe dead")
	case uevent.EventFlowDefChanged:
		s.logger.Info("flow-def changed")
	case uevent.EventSourceEnd:
		s.logger.Warn("source end")
	case uevent.EventSinkEnd:
		s.logger.Warn("sink end")
	case uevent.EventSyncAcquired:
		s.logger.Info("sync acquired")
	case uevent.EventSyncLost:
		s.logger.Warn("sync lost")
	case uevent.EventError:
		msg := "pipe error"
		if len(args) > 0 {
			msg = fmt.Sprintf("pipe error: %v", args[0])
		}
		s.logger.Error(msg)
	case uevent.EventLocal:
		if s.maskUnknown {
			break
		}
		s.logger.Debug("local event", "signature", string(sig))
	default:
		s.logger.Debug(event.String())
	}
	return s.ThrowNext(pipe, event, sig, args...)
}

var _ upipeiface.Probe = (*Stdio)(nil)
