package modules

import "github.com/openheadend/upipe-go"
import "github.com/openheadend/upipe-go/internal/helpers"

// SigDup identifies the fan-out dup pipe, and SigDupOutput its
// per-branch sub-pipes.
const (
	SigDup       upipe.Signature = "dup"
	SigDupOutput upipe.Signature = "dup.output"
)

// Dup fans a single input out to any number of sub-pipe outputs, each
// receiving its own duplicate uref, using the general sub-pipe
// convention: each branch is a first-class DupOutput sub-pipe, so the
// existing SubPipeHelper/SuperPipe lifetime machinery governs it
// exactly like any other demux-output sub-pipe would.
type Dup struct {
	upipe.StateMachine
	helpers.Refcount
	helpers.SubPipeHelper

	sig   upipe.Signature
	probe upipe.Probe
}

// DupMgr is the dup pipe manager; it also mints DupOutput sub-pipes.
type DupMgr struct{}

// NewDupMgr creates the dup manager.
func NewDupMgr() *DupMgr { return &DupMgr{} }

func (m *DupMgr) Signature() upipe.Signature { return SigDup }
func (m *DupMgr) Use() upipe.Manager         { return m }
func (m *DupMgr) Release()                   {}

func (m *DupMgr) Alloc(probe upipe.Probe, _ ...any) (upipe.Pipe, error) {
	d := &Dup{sig: SigDup, probe: probe}
	d.InitRefcount(func() {
		d.SubPipeHelper.ReleaseAll()
		d.StateMachine.MarkDying()
	})
	d.InitState(probe, SigDup)
	return d, nil
}

func (m *DupMgr) MgrControl(_ upipe.Command, _ ...any) (upipe.Code, error) {
	return upipe.CodeUnhandled, nil
}

var _ upipe.Manager = (*DupMgr)(nil)

func (d *Dup) Use() upipe.Pipe { d.Refcount.Use(); return d }
func (d *Dup) Release()        { d.Refcount.Release() }

// Input duplicates u once per sub-pipe branch and releases the
// original once every branch has its own copy.
func (d *Dup) Input(u *upipe.Uref, pump *upipe.Pump) {
	subs := d.Subs()
	for _, sub := range subs {
		out, ok := sub.(*DupOutput)
		if !ok {
			continue
		}
		out.Output.Emit(u.Dup(), pump)
	}
	u.Release()
}

// DupAllocOutput is the module-local command name (carried via
// CommandLocal, per uevent's "module-specific commands are carried as
// CommandLocal plus a Signature and a name") that allocates a new
// DupOutput branch. args: optional func(upipe.Pipe) callback invoked
// with the new branch.
const DupAllocOutput = "dup.alloc-output"

// Control handles the DupAllocOutput local command by allocating a new
// branch; everything else is unhandled at this level.
func (d *Dup) Control(cmd upipe.Command, args ...any) (upipe.Code, error) {
	if cmd != upipe.CommandLocal || len(args) == 0 {
		return upipe.CodeUnhandled, nil
	}
	name, ok := args[0].(string)
	if !ok || name != DupAllocOutput {
		return upipe.CodeUnhandled, nil
	}
	out := &DupOutput{sig: SigDupOutput, probe: d.probe}
	out.SetSuper(d)
	out.InitRefcount(func() { out.StateMachine.MarkDying() })
	out.InitState(d.probe, SigDupOutput)
	d.Attach(out)
	if len(args) == 2 {
		if cb, ok := args[1].(func(upipe.Pipe)); ok {
			cb(out)
		}
	}
	return upipe.CodeOK, nil
}

var _ upipe.Pipe = (*Dup)(nil)

// DupOutput is one branch of a Dup fan-out: a sub-pipe that holds only
// an output linkage, no input logic of its own (it is driven by Dup.Input).
type DupOutput struct {
	upipe.StateMachine
	helpers.Refcount
	helpers.Output
	helpers.SuperPipe

	sig   upipe.Signature
	probe upipe.Probe
}

func (o *DupOutput) Use() upipe.Pipe { o.Refcount.Use(); return o }
func (o *DupOutput) Release()        { o.Refcount.Release() }

// Input is unused directly; branches are fed via Dup.Input fan-out.
func (o *DupOutput) Input(_ *upipe.Uref, _ *upipe.Pump) {}

func (o *DupOutput) Control(cmd upipe.Command, args ...any) (upipe.Code, error) {
	if code, handled := o.Output.ControlOutput(cmd, args...); handled {
		return code, nil
	}
	return upipe.CodeUnhandled, nil
}

var _ upipe.Pipe = (*DupOutput)(nil)
