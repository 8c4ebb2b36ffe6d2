package modules

import "github.com/openheadend/upipe-go"
import "github.com/openheadend/upipe-go/internal/helpers"

// SigGate identifies the random-access gate/trim module.
const SigGate upipe.Signature = "video_trim"

// Gate drops every uref until one carries the random-access flag, then
// passes that uref and every one after it straight through: sync is
// acquired on the first random-access-flagged uref, which is also the
// first one delivered. Reference-frame trimming (nb_refs bookkeeping
// for P/B frames) is out of scope here since nothing in this port
// names a coded-frame type system to trim against.
type Gate struct {
	upipe.StateMachine
	helpers.Refcount
	helpers.Output

	sig      upipe.Signature
	probe    upipe.Probe
	acquired bool
}

// GateMgr is the gate/trim pipe manager.
type GateMgr struct{}

// NewGateMgr creates the gate/trim manager.
func NewGateMgr() *GateMgr { return &GateMgr{} }

func (m *GateMgr) Signature() upipe.Signature { return SigGate }
func (m *GateMgr) Use() upipe.Manager         { return m }
func (m *GateMgr) Release()                   {}

func (m *GateMgr) Alloc(probe upipe.Probe, _ ...any) (upipe.Pipe, error) {
	g := &Gate{sig: SigGate, probe: probe}
	g.InitRefcount(func() { g.StateMachine.MarkDying() })
	g.InitState(probe, SigGate)
	return g, nil
}

func (m *GateMgr) MgrControl(_ upipe.Command, _ ...any) (upipe.Code, error) {
	return upipe.CodeUnhandled, nil
}

var _ upipe.Manager = (*GateMgr)(nil)

func (g *Gate) Use() upipe.Pipe { g.Refcount.Use(); return g }
func (g *Gate) Release()        { g.Refcount.Release() }

// Input drops every uref until synchronization is acquired on the
// first random-access-flagged uref, which is itself delivered.
func (g *Gate) Input(u *upipe.Uref, pump *upipe.Pump) {
	if !g.acquired {
		if !u.RandomAccess() {
			u.Release()
			return
		}
		g.acquired = true
		if g.probe != nil {
			g.probe.Throw(g, upipe.EventSyncAcquired, g.sig)
		}
	}
	g.Output.Emit(u, pump)
}

func (g *Gate) Control(cmd upipe.Command, args ...any) (upipe.Code, error) {
	switch cmd {
	case upipe.CommandSetFlowDef:
		if len(args) != 1 {
			return upipe.CodeInvalid, nil
		}
		def, ok := args[0].(*upipe.Uref)
		if !ok {
			return upipe.CodeInvalid, nil
		}
		flowDef, ok := def.FlowDef()
		if !ok || !upipe.FlowDefMatches(flowDef, "block.") {
			return upipe.CodeInvalid, nil
		}
		g.Output.StoreFlowDef(def)
		g.MarkLive()
		if g.probe != nil {
			g.probe.Throw(g, upipe.EventFlowDefChanged, g.sig)
		}
		return upipe.CodeOK, nil
	default:
		if code, handled := g.Output.ControlOutput(cmd, args...); handled {
			return code, nil
		}
		return upipe.CodeUnhandled, nil
	}
}

var _ upipe.Pipe = (*Gate)(nil)
