package modules

import "sync/atomic"

import "github.com/openheadend/upipe-go"
import "github.com/openheadend/upipe-go/internal/helpers"

// SigNullSink identifies the counting null sink.
const SigNullSink upipe.Signature = "null"

// NullSink accepts every uref it is given, releases it immediately,
// and counts how many it has seen — the terminal pipe scenario 5's
// test uses to observe what a cross-thread worker sink actually
// delivered. No original-C module matches a bare
// counting sink directly; the nearest analogue, upipe_null in the
// reference tree, behaves identically (drop everything) but does not
// count, so the counter here is this port's own addition in the same
// one-method spirit as that module.
type NullSink struct {
	upipe.StateMachine
	helpers.Refcount

	sig   upipe.Signature
	probe upipe.Probe
	count atomic.Uint64
}

// NullSinkMgr is the null-sink pipe manager.
type NullSinkMgr struct{}

// NewNullSinkMgr creates the null-sink manager.
func NewNullSinkMgr() *NullSinkMgr { return &NullSinkMgr{} }

func (m *NullSinkMgr) Signature() upipe.Signature { return SigNullSink }
func (m *NullSinkMgr) Use() upipe.Manager         { return m }
func (m *NullSinkMgr) Release()                   {}

func (m *NullSinkMgr) Alloc(probe upipe.Probe, _ ...any) (upipe.Pipe, error) {
	ns := &NullSink{sig: SigNullSink, probe: probe}
	ns.InitRefcount(func() { ns.StateMachine.MarkDying() })
	ns.InitState(probe, SigNullSink)
	return ns, nil
}

func (m *NullSinkMgr) MgrControl(_ upipe.Command, _ ...any) (upipe.Code, error) {
	return upipe.CodeUnhandled, nil
}

var _ upipe.Manager = (*NullSinkMgr)(nil)

func (ns *NullSink) Use() upipe.Pipe { ns.Refcount.Use(); return ns }
func (ns *NullSink) Release()        { ns.Refcount.Release() }

// Input drops u after counting it.
func (ns *NullSink) Input(u *upipe.Uref, _ *upipe.Pump) {
	ns.count.Add(1)
	u.Release()
}

// Count returns the number of urefs received so far.
func (ns *NullSink) Count() uint64 { return ns.count.Load() }

// Control accepts any flow-def (a null sink drops every format), going
// live on the first one like any other pipe's "ready -> live" transition.
func (ns *NullSink) Control(cmd upipe.Command, _ ...any) (upipe.Code, error) {
	switch cmd {
	case upipe.CommandSetFlowDef:
		ns.MarkLive()
		return upipe.CodeOK, nil
	default:
		return upipe.CodeUnhandled, nil
	}
}

var _ upipe.Pipe = (*NullSink)(nil)
