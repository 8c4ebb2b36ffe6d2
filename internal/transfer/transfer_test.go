package transfer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// recordingPipe is a minimal real pipe standing in for a sink on loop B.
type recordingPipe struct {
	inputs []*uref.Uref
	ctrls  []uevent.Command
	probe  upipeiface.Probe
}

func (p *recordingPipe) Use() upipeiface.Pipe { return p }
func (p *recordingPipe) Release()             {}
func (p *recordingPipe) Input(u *uref.Uref, _ *upump.Pump) {
	p.inputs = append(p.inputs, u)
}
func (p *recordingPipe) Control(cmd uevent.Command, _ ...any) (uevent.Code, error) {
	p.ctrls = append(p.ctrls, cmd)
	return uevent.CodeOK, nil
}

var _ upipeiface.Pipe = (*recordingPipe)(nil)

// stubMgr hands out a single pre-built recordingPipe for every Alloc,
// standing in for a real sink's manager on loop B.
type stubMgr struct {
	sig  uevent.Signature
	pipe *recordingPipe
}

func (m *stubMgr) Signature() uevent.Signature  { return m.sig }
func (m *stubMgr) Use() upipeiface.Manager      { return m }
func (m *stubMgr) Release()                     {}
func (m *stubMgr) Alloc(probe upipeiface.Probe, _ ...any) (upipeiface.Pipe, error) {
	m.pipe.probe = probe
	return m.pipe, nil
}
func (m *stubMgr) MgrControl(_ uevent.Command, _ ...any) (uevent.Code, error) {
	return uevent.CodeOK, nil
}

var _ upipeiface.Manager = (*stubMgr)(nil)

func twoLoops(t *testing.T) (*upump.Mgr, *upump.Mgr) {
	t.Helper()
	a, err := upump.NewMgr()
	require.NoError(t, err)
	b, err := upump.NewMgr()
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(); b.Close() })
	return a, b
}

// pump drives both loops until both are quiescent, for deterministic
// single-goroutine tests of the otherwise cross-thread protocol.
func pumpBoth(t *testing.T, a, b *upump.Mgr) {
	t.Helper()
	for i := 0; i < 8; i++ {
		require.NoError(t, b.RunOne())
		require.NoError(t, a.RunOne())
	}
}

func TestWorkerSinkDeliversInputToRealPipe(t *testing.T) {
	loopA, loopB := twoLoops(t)
	real := &recordingPipe{}
	innerMgr := &stubMgr{sig: "test.sink", pipe: real}

	link := NewLink(loopA, loopB)
	link.Out.Pump().Start()
	link.In.Pump().Start()
	NewInner(link, innerMgr)
	mgr := NewMgr("test.sink", link)

	proxy, err := mgr.Alloc(nil)
	require.NoError(t, err)
	pumpBoth(t, loopA, loopB)

	refMgr := uref.NewMgr()
	u := refMgr.Alloc()
	u.SetFlowDef("block.")
	proxy.Input(u, nil)
	pumpBoth(t, loopA, loopB)

	require.Len(t, real.inputs, 1)
	assert.Same(t, u, real.inputs[0])
}

func TestWorkerSinkForwardsControl(t *testing.T) {
	loopA, loopB := twoLoops(t)
	real := &recordingPipe{}
	innerMgr := &stubMgr{sig: "test.sink", pipe: real}

	link := NewLink(loopA, loopB)
	link.Out.Pump().Start()
	link.In.Pump().Start()
	NewInner(link, innerMgr)
	mgr := NewMgr("test.sink", link)

	proxy, err := mgr.Alloc(nil)
	require.NoError(t, err)
	pumpBoth(t, loopA, loopB)

	code, err := proxy.Control(uevent.CommandSetOption, "k", "v")
	require.NoError(t, err)
	assert.Equal(t, uevent.CodeOK, code, "Control itself completes synchronously")
	pumpBoth(t, loopA, loopB)

	require.Len(t, real.ctrls, 1)
	assert.Equal(t, uevent.CommandSetOption, real.ctrls[0])
}

type countingProbe struct {
	events []uevent.Event
}

func (c *countingProbe) Throw(_ upipeiface.Pipe, event uevent.Event, _ uevent.Signature, _ ...any) uevent.Code {
	c.events = append(c.events, event)
	return uevent.CodeOK
}

func TestEventsThrownOnLoopBPropagateToLoopAProbe(t *testing.T) {
	loopA, loopB := twoLoops(t)
	real := &recordingPipe{}
	innerMgr := &stubMgr{sig: "test.sink", pipe: real}

	link := NewLink(loopA, loopB)
	link.Out.Pump().Start()
	link.In.Pump().Start()
	NewInner(link, innerMgr)
	mgr := NewMgr("test.sink", link)

	probe := &countingProbe{}
	_, err := mgr.Alloc(probe)
	require.NoError(t, err)
	pumpBoth(t, loopA, loopB)

	real.probe.Throw(real, uevent.EventReady, "")
	pumpBoth(t, loopA, loopB)

	require.Len(t, probe.events, 1)
	assert.Equal(t, uevent.EventReady, probe.events[0])
}

func TestProxyHoldsInputWhenQueueFull(t *testing.T) {
	loopA, loopB := twoLoops(t)
	link := NewLink(loopA, loopB)
	link.Out.SetMaxDepth(1)

	refMgr := uref.NewMgr()
	probe := newProxy(link, "test.sink", nil)
	probe.link.Out.Push(Envelope{Kind: KindControl}) // fill the queue to capacity

	u := refMgr.Alloc()
	probe.Input(u, nil)
	assert.False(t, probe.in.CheckInput(), "input held locally when the outbound queue rejects the push")
}

func TestQueueFullErrorSurfacesOnAlloc(t *testing.T) {
	loopA, loopB := twoLoops(t)
	link := NewLink(loopA, loopB)
	link.Out.SetMaxDepth(1)
	mgr := NewMgr("test.sink", link)

	_, err := mgr.Alloc(nil) // consumes the one slot (KindAlloc envelope)
	require.NoError(t, err)

	proxy, err := mgr.Alloc(nil)
	require.Error(t, err)
	assert.Nil(t, proxy)
	assert.True(t, errors.Is(err, upump.ErrQueueFull))
}
