package helpers

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Output is the output-helper mixin: the downstream output pointer,
// the current output flow-def, and the pending request list proxied
// through to whatever provides them.
type Output struct {
	output   upipeiface.Pipe
	flowDef  *uref.Uref
	requests []*upipeiface.Request
}

// StoreFlowDef records the pipe's current output flow-def, duplicating
// it so the caller retains ownership of its own copy.
func (o *Output) StoreFlowDef(def *uref.Uref) {
	if def == nil {
		o.flowDef = nil
		return
	}
	o.flowDef = def.Dup()
}

// FlowDef returns the stored output flow-def, or nil.
func (o *Output) FlowDef() *uref.Uref { return o.flowDef }

// SetOutput installs a new downstream pipe, re-sending the current
// output flow-def through it if one is set and the new output differs
// from the old one.
func (o *Output) SetOutput(output upipeiface.Pipe) {
	if output == o.output {
		return
	}
	o.output = output
	if o.output != nil && o.flowDef != nil {
		o.output.Control(uevent.CommandSetFlowDef, o.flowDef)
	}
}

// GetOutput returns the current downstream pipe, or nil.
func (o *Output) GetOutput() upipeiface.Pipe { return o.output }

// Emit calls the output's Input. A nil output silently drops u — there
// is nowhere downstream to deliver it, matching a sink pipe with no
// configured output.
func (o *Output) Emit(u *uref.Uref, pump *upump.Pump) {
	if o.output == nil {
		return
	}
	o.output.Input(u, pump)
}

// ControlOutput forwards a standard output-directed command
// (set-output/get-output) to this helper.
func (o *Output) ControlOutput(cmd uevent.Command, args ...any) (uevent.Code, bool) {
	switch cmd {
	case uevent.CommandSetOutput:
		if len(args) != 1 {
			return uevent.CodeInvalid, true
		}
		p, ok := args[0].(upipeiface.Pipe)
		if !ok {
			return uevent.CodeInvalid, true
		}
		o.SetOutput(p)
		return uevent.CodeOK, true
	case uevent.CommandGetOutput:
		return uevent.CodeOK, true
	default:
		return uevent.CodeUnhandled, false
	}
}

// RegisterRequest appends req to the pending list, for pass-through to
// whatever in the chain can answer it.
func (o *Output) RegisterRequest(req *upipeiface.Request) {
	o.requests = append(o.requests, req)
}

// UnregisterRequest removes req from the pending list.
func (o *Output) UnregisterRequest(req *upipeiface.Request) {
	for i, r := range o.requests {
		if r == req {
			o.requests = append(o.requests[:i], o.requests[i+1:]...)
			return
		}
	}
}

// Requests returns the currently pending requests.
func (o *Output) Requests() []*upipeiface.Request { return o.requests }
