// Package modules implements a small set of standard pipes built on
// the core: a cadence-driven void source, a random-access gate/trim, a
// fan-out dup, and a counting null sink.
package modules

import (
	"time"

	"github.com/openheadend/upipe-go"
	"github.com/openheadend/upipe-go/internal/helpers"
	"github.com/openheadend/upipe-go/internal/uclock"
)

// SigVoidSource identifies the void-source module.
const SigVoidSource upipe.Signature = "void_source"

// VoidSource generates an empty (void-flow) uref on a fixed cadence,
// stamped with pts = start + n * interval. It stages readiness in three
// steps before arming a timer — uref manager, then clock, then upump
// manager — and start is the clock's reading when the timer is first
// armed (0 until then); pts advances by interval for every uref emitted.
type VoidSource struct {
	upipe.StateMachine
	helpers.Refcount
	helpers.Output
	helpers.UrefMgrHelper
	helpers.UclockHelper
	helpers.UpumpMgrHelper

	sig      upipe.Signature
	probe    upipe.Probe
	interval uint64 // in 27 MHz ticks, matching uref PTS units
	pts      uint64
	havePTS  bool
	timer    *upipe.Pump
}

// VoidSourceMgr is the void-source pipe manager.
type VoidSourceMgr struct{}

// NewVoidSourceMgr creates the void-source manager.
func NewVoidSourceMgr() *VoidSourceMgr { return &VoidSourceMgr{} }

func (m *VoidSourceMgr) Signature() upipe.Signature { return SigVoidSource }
func (m *VoidSourceMgr) Use() upipe.Manager         { return m }
func (m *VoidSourceMgr) Release()                   {}

// Alloc creates a void source with the given cadence in 27 MHz ticks
// (args[0], a uint64; defaults to 40 000 ticks if omitted).
func (m *VoidSourceMgr) Alloc(probe upipe.Probe, args ...any) (upipe.Pipe, error) {
	interval := uint64(40_000)
	if len(args) > 0 {
		if v, ok := args[0].(uint64); ok {
			interval = v
		}
	}
	vs := &VoidSource{sig: SigVoidSource, probe: probe, interval: interval}
	vs.UrefMgrHelper.SetCheck(vs.check)
	vs.UclockHelper.SetCheck(vs.check)
	vs.UpumpMgrHelper.SetCheck(vs.check)
	vs.InitRefcount(func() {
		if vs.timer != nil {
			vs.timer.Release()
		}
		vs.StateMachine.MarkDying()
	})
	vs.InitState(probe, SigVoidSource)
	vs.check()
	return vs, nil
}

func (m *VoidSourceMgr) MgrControl(_ upipe.Command, _ ...any) (upipe.Code, error) {
	return upipe.CodeUnhandled, nil
}

var _ upipe.Manager = (*VoidSourceMgr)(nil)

func (vs *VoidSource) Use() upipe.Pipe { vs.Refcount.Use(); return vs }
func (vs *VoidSource) Release()        { vs.Refcount.Release() }

// Input is unused: a source pipe never receives input.
func (vs *VoidSource) Input(_ *upipe.Uref, _ *upipe.Pump) {}

func (vs *VoidSource) Control(cmd upipe.Command, args ...any) (upipe.Code, error) {
	code, err := vs.controlReal(cmd, args...)
	vs.check()
	return code, err
}

func (vs *VoidSource) controlReal(cmd upipe.Command, args ...any) (upipe.Code, error) {
	switch cmd {
	case upipe.CommandAttachUpumpMgr:
		if len(args) != 1 {
			return upipe.CodeInvalid, nil
		}
		mgr, ok := args[0].(*upipe.PumpMgr)
		if !ok {
			return upipe.CodeInvalid, nil
		}
		if vs.timer != nil {
			vs.timer.Release()
			vs.timer = nil
		}
		vs.UpumpMgrHelper.Provide(mgr)
		return upipe.CodeOK, nil
	case upipe.CommandSetOutput, upipe.CommandGetOutput:
		if code, handled := vs.Output.ControlOutput(cmd, args...); handled {
			return code, nil
		}
		return upipe.CodeUnhandled, nil
	case upipe.CommandGetFlowDef:
		return upipe.CodeOK, nil
	default:
		return upipe.CodeUnhandled, nil
	}
}

// check advances readiness: request a uref manager, then a clock, then
// (once an upump manager has been attached) arm the cadence timer.
func (vs *VoidSource) check() {
	if _, ok := vs.UrefMgrHelper.Get(); !ok {
		if vs.UrefMgrHelper.Pending() == nil && vs.probe != nil {
			req := vs.UrefMgrHelper.Request(upipe.NewRequest(upipe.RequestUrefMgr, nil, func(res any) {
				if mgr, ok := res.(*upipe.UrefMgr); ok {
					vs.UrefMgrHelper.Provide(mgr)
				}
			}))
			vs.probe.Throw(vs, upipe.EventNeedUrefMgr, vs.sig, req)
		}
		return
	}
	if _, ok := vs.UclockHelper.Get(); !ok {
		if vs.UclockHelper.Pending() == nil && vs.probe != nil {
			req := vs.UclockHelper.Request(upipe.NewRequest(upipe.RequestUclock, nil, func(res any) {
				if clock, ok := res.(upipe.Clock); ok {
					vs.UclockHelper.Provide(clock)
				}
			}))
			vs.probe.Throw(vs, upipe.EventNeedUclock, vs.sig, req)
		}
		return
	}
	pumpMgr, ok := vs.UpumpMgrHelper.Get()
	if !ok || pumpMgr == nil || vs.timer != nil {
		return
	}
	clock, _ := vs.UclockHelper.Get()
	if !vs.havePTS {
		vs.pts = uint64(clock.Now())
		vs.havePTS = true
	}
	nsInterval := int64(vs.interval) * time.Second.Nanoseconds() / uclock.Freq
	timer, err := pumpMgr.NewTimer(nsInterval, nsInterval, vs.tick)
	if err != nil {
		return
	}
	vs.timer = timer
	timer.Start()
}

// tick fires on every cadence period, emitting every uref whose pts
// has come due, to cover the rare case where the loop was too slow to
// fire exactly on cadence and multiple urefs are due at once.
func (vs *VoidSource) tick() {
	clock, ok := vs.UclockHelper.Get()
	if !ok {
		return
	}
	urefMgr, ok := vs.UrefMgrHelper.Get()
	if !ok {
		return
	}
	for now := uint64(clock.Now()); vs.pts <= now; now = uint64(clock.Now()) {
		u := urefMgr.Alloc()
		u.SetDuration(vs.interval)
		u.SetPTS(upipe.DomainSys, vs.pts)
		u.SetPTS(upipe.DomainProg, vs.pts)
		vs.pts += vs.interval
		vs.Output.Emit(u, vs.timer)
	}
}

var _ upipe.Pipe = (*VoidSource)(nil)
