package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go"
	"github.com/openheadend/upipe-go/internal/transfer"
	"github.com/openheadend/upipe-go/internal/upump"
)

func twoLoops(t *testing.T) (*upump.Mgr, *upump.Mgr) {
	t.Helper()
	a, err := upump.NewMgr()
	require.NoError(t, err)
	b, err := upump.NewMgr()
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(); b.Close() })
	return a, b
}

func pumpBoth(t *testing.T, a, b *upump.Mgr) {
	t.Helper()
	for i := 0; i < 8; i++ {
		require.NoError(t, b.RunOne())
		require.NoError(t, a.RunOne())
	}
}

// recordingMgr wraps a real manager, keeping a handle on the one real
// pipe it allocates so the test can inspect it directly even though it
// only ever runs on loop B.
type recordingMgr struct {
	inner upipe.Manager
	pipe  *NullSink
}

func (m *recordingMgr) Signature() upipe.Signature { return m.inner.Signature() }
func (m *recordingMgr) Use() upipe.Manager          { return m }
func (m *recordingMgr) Release()                    {}
func (m *recordingMgr) Alloc(probe upipe.Probe, args ...any) (upipe.Pipe, error) {
	p, err := m.inner.Alloc(probe, args...)
	if err != nil {
		return nil, err
	}
	m.pipe = p.(*NullSink)
	return p, nil
}
func (m *recordingMgr) MgrControl(cmd upipe.Command, args ...any) (upipe.Code, error) {
	return m.inner.MgrControl(cmd, args...)
}

var _ upipe.Manager = (*recordingMgr)(nil)

// TestCrossLoopTransferDeliversAllToRealSink exercises Testable
// Properties Scenario 5 with a real module instead of a stub: a
// NullSink is wrapped in a worker-sink bound to loop B; set-flow-def
// issued from loop A reaches the real sink and returns ok once loop B
// has run, and every uref pushed from loop A arrives on the real sink.
func TestCrossLoopTransferDeliversAllToRealSink(t *testing.T) {
	loopA, loopB := twoLoops(t)

	rec := &recordingMgr{inner: NewNullSinkMgr()}
	proxy, err := transfer.NewWorkerSink(loopA, loopB, SigNullSink, rec, nil)
	require.NoError(t, err)
	pumpBoth(t, loopA, loopB)
	require.NotNil(t, rec.pipe, "the real sink must have been allocated on loop B by now")

	urefMgr := upipe.NewUrefMgr()
	def := urefMgr.Alloc()
	def.SetFlowDef("block.")
	code, err := proxy.Control(upipe.CommandSetFlowDef, def)
	require.NoError(t, err)
	assert.Equal(t, upipe.CodeOK, code, "Control returns ok synchronously from loop A's perspective")
	pumpBoth(t, loopA, loopB)
	assert.Equal(t, upipe.StateLive, rec.pipe.State(), "set-flow-def ran on the real pipe, on loop B")

	u1 := urefMgr.Alloc()
	u2 := urefMgr.Alloc()
	u3 := urefMgr.Alloc()
	proxy.Input(u1, nil)
	proxy.Input(u2, nil)
	proxy.Input(u3, nil)
	pumpBoth(t, loopA, loopB)
	pumpBoth(t, loopA, loopB)

	assert.Equal(t, uint64(3), rec.pipe.Count())
}
