package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go"
)

type countingProbe struct {
	events map[upipe.Event]int
}

func newCountingProbe() *countingProbe {
	return &countingProbe{events: make(map[upipe.Event]int)}
}

func (p *countingProbe) Throw(_ upipe.Pipe, event upipe.Event, _ upipe.Signature, _ ...any) upipe.Code {
	p.events[event]++
	return upipe.CodeUnhandled
}

type recordingSink struct {
	received []*upipe.Uref
}

func (s *recordingSink) Use() upipe.Pipe { return s }
func (s *recordingSink) Release()        {}
func (s *recordingSink) Input(u *upipe.Uref, _ *upipe.Pump) {
	s.received = append(s.received, u)
}
func (s *recordingSink) Control(_ upipe.Command, _ ...any) (upipe.Code, error) {
	return upipe.CodeUnhandled, nil
}

var _ upipe.Pipe = (*recordingSink)(nil)

// TestGateDropsUntilRandomAccessThenPassesThrough exercises Testable
// Properties scenario 4: urefs before the first random-access-flagged
// one are dropped; the first delivered uref equals the first
// random-access-flagged uref; sync-acquired fires exactly once.
func TestGateDropsUntilRandomAccessThenPassesThrough(t *testing.T) {
	mgr := NewGateMgr()
	probe := newCountingProbe()
	pipe, err := mgr.Alloc(probe)
	require.NoError(t, err)
	gate := pipe.(*Gate)

	sink := &recordingSink{}
	gate.Output.SetOutput(sink)

	urefMgr := upipe.NewUrefMgr()

	notRandom1 := urefMgr.Alloc()
	notRandom2 := urefMgr.Alloc()
	firstRandom := urefMgr.Alloc()
	firstRandom.SetRandomAccess(true)
	after := urefMgr.Alloc()

	gate.Input(notRandom1, nil)
	gate.Input(notRandom2, nil)
	gate.Input(firstRandom, nil)
	gate.Input(after, nil)

	require.Len(t, sink.received, 2)
	assert.Same(t, firstRandom, sink.received[0])
	assert.Same(t, after, sink.received[1])
	assert.Equal(t, 1, probe.events[upipe.EventSyncAcquired])
}

func TestGateSetFlowDefValidatesPrefixAndMarksLive(t *testing.T) {
	mgr := NewGateMgr()
	probe := newCountingProbe()
	pipe, err := mgr.Alloc(probe)
	require.NoError(t, err)
	gate := pipe.(*Gate)

	urefMgr := upipe.NewUrefMgr()
	bad := urefMgr.Alloc()
	bad.SetFlowDef("pic.raw.")
	code, err := gate.Control(upipe.CommandSetFlowDef, bad)
	require.NoError(t, err)
	assert.Equal(t, upipe.CodeInvalid, code)
	assert.Equal(t, upipe.StateReady, gate.State())

	good := urefMgr.Alloc()
	good.SetFlowDef("block.mpeg2video.pic.")
	code, err = gate.Control(upipe.CommandSetFlowDef, good)
	require.NoError(t, err)
	assert.Equal(t, upipe.CodeOK, code)
	assert.Equal(t, upipe.StateLive, gate.State())
	assert.Equal(t, 1, probe.events[upipe.EventFlowDefChanged])
}
