package uprobe

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// PthreadAssert verifies events arrive on the declared goroutine,
// panicking otherwise: a debug-time programmer-error check, not a
// recoverable Code.
type PthreadAssert struct {
	Base
	owner      func() bool // reports whether the calling goroutine is the declared owner
}

// NewPthreadAssert creates a probe that panics if an event arrives
// while owner() returns false. owner is typically a closure comparing
// a stored goroutine-local marker (e.g. via a context value threaded
// through the loop) against the current call.
func NewPthreadAssert(owner func() bool, next upipeiface.Probe) *PthreadAssert {
	return &PthreadAssert{Base: Base{Next: next}, owner: owner}
}

func (p *PthreadAssert) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if p.owner != nil && !p.owner() {
		panic("upipe: event thrown off the pipe's declared loop")
	}
	return p.ThrowNext(pipe, event, sig, args...)
}

var _ upipeiface.Probe = (*PthreadAssert)(nil)
