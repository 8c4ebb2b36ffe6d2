// Package upipeiface holds the narrow trait-object interfaces shared
// across the core: Probe, Pipe, and Manager. It is a leaf package (no
// internal imports beyond uevent/uref/upump) so that
// internal/helpers, internal/uprobe, internal/transfer, modules/, and
// the root upipe package can all depend on it without an import
// cycle.
//
// Polymorphism here is modeled as a narrow interface (alloc, input,
// control, mgr_control) rather than a function-pointer vtable, and
// events are a typed argument list rather than a (tag, va_list) pair,
// so a probe pattern-matches on the event and its typed arguments.
package upipeiface

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Probe is a callable (probe, pipe, event-tag, args) -> result. A
// probe implementation either consumes the event (returning a
// definitive Code), or delegates to Next via ThrowNext, or returns
// CodeUnhandled.
type Probe interface {
	Throw(pipe Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code
}

// Pipe is the narrow control ABI every pipe satisfies: input, control,
// and refcount use/release.
type Pipe interface {
	Use() Pipe
	Release()
	Input(u *uref.Uref, pump *upump.Pump)
	Control(cmd uevent.Command, args ...any) (uevent.Code, error)
}

// Manager is a pipe factory: alloc, input (for non-source pipes this
// is reached through the allocated Pipe's Input, not the manager
// directly — kept here only for mgr_control), control, and
// mgr_control.
type Manager interface {
	Signature() uevent.Signature
	Use() Manager
	Release()
	Alloc(probe Probe, args ...any) (Pipe, error)
	MgrControl(cmd uevent.Command, args ...any) (uevent.Code, error)
}

// Request models a deferred resource-discovery message:
// a pipe asks upstream for a manager or clock it needs and gets
// answered asynchronously once one becomes available.
type Request struct {
	Type     uevent.RequestType
	FlowDef  *uref.Uref
	Answered bool
	answer   func(result any)
}

// NewRequest creates a request with the given completion callback.
func NewRequest(t uevent.RequestType, flowDef *uref.Uref, answer func(result any)) *Request {
	return &Request{Type: t, FlowDef: flowDef, answer: answer}
}

// Answer delivers result to the request's callback exactly once.
func (r *Request) Answer(result any) {
	if r.Answered {
		return
	}
	r.Answered = true
	if r.answer != nil {
		r.answer(result)
	}
}
