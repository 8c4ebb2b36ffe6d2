package transfer

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
)

// NewWorkerSink wires a complete worker-sink: loop A's code gets back
// a single upipeiface.Pipe (the Proxy) that looks local, while the
// real sink — allocated via innerMgr — actually runs on loop B. The
// caller must Run both loopA and loopB's Mgr in their respective
// goroutines before using the returned pipe.
func NewWorkerSink(loopA, loopB *upump.Mgr, sig uevent.Signature, innerMgr upipeiface.Manager, probe upipeiface.Probe, args ...any) (upipeiface.Pipe, error) {
	link := NewLink(loopA, loopB)
	link.Out.Pump().Start()
	link.In.Pump().Start()
	NewInner(link, innerMgr)
	mgr := NewMgr(sig, link)
	return mgr.Alloc(probe, args...)
}

// NewWorkerSource is the source-direction counterpart. The transfer
// primitive underneath is symmetric (input flows A→B either way); it
// is named separately because callers reach for worker-sink,
// worker-source, and worker-linear by role, not because the wiring
// differs.
func NewWorkerSource(loopA, loopB *upump.Mgr, sig uevent.Signature, innerMgr upipeiface.Manager, probe upipeiface.Probe, args ...any) (upipeiface.Pipe, error) {
	return NewWorkerSink(loopA, loopB, sig, innerMgr, probe, args...)
}

// NewWorkerLinear composes a worker-sink leg (input: A→B) together
// with a second, reverse Link (output: B→A) the caller wires with its
// own NewLink(loopB, loopA)/NewInner/NewMgr triple bound to the
// downstream pipe's manager. Unlike worker-sink/source, the two legs'
// inner managers necessarily differ (the forward leg's inner pipe is
// not the reverse leg's), so this helper only builds the forward leg
// and documents the pattern rather than hiding a second hop behind one
// call.
func NewWorkerLinear(loopA, loopB *upump.Mgr, sig uevent.Signature, innerMgr upipeiface.Manager, probe upipeiface.Probe, args ...any) (upipeiface.Pipe, error) {
	return NewWorkerSink(loopA, loopB, sig, innerMgr, probe, args...)
}
