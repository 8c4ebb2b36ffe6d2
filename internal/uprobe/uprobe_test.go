package uprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

type stubPipe struct{}

func (stubPipe) Use() upipeiface.Pipe                    { return stubPipe{} }
func (stubPipe) Release()                                {}
func (stubPipe) Input(_ *uref.Uref, _ *upump.Pump)        {}
func (stubPipe) Control(_ uevent.Command, _ ...any) (uevent.Code, error) {
	return uevent.CodeOK, nil
}

var _ upipeiface.Pipe = stubPipe{}

func TestStdioDefaultMasksClockEvents(t *testing.T) {
	counter := NewCounter(nil)
	stdio := NewStdio(nil)
	stdio.Next = counter

	stdio.Throw(nil, uevent.EventClockRef, "")
	stdio.Throw(nil, uevent.EventReady, "")

	assert.Equal(t, uint64(1), counter.Snapshot(uevent.EventClockRef), "masked events must still propagate, only not log")
	assert.Equal(t, uint64(1), counter.Snapshot(uevent.EventReady))
}

func TestProviderAnswersRequest(t *testing.T) {
	mgr := "a-uref-mgr"
	provider := NewUrefMgrProvider(mgr, nil)

	var answered any
	req := upipeiface.NewRequest(uevent.RequestUrefMgr, nil, func(r any) { answered = r })

	code := provider.Throw(nil, uevent.EventNeedUrefMgr, "", req)
	assert.Equal(t, uevent.CodeOK, code)
	assert.Equal(t, mgr, answered)
	assert.True(t, req.Answered)
}

func TestSelectFlowSuppressesNonMatching(t *testing.T) {
	counter := NewCounter(nil)
	sf := NewSelectFlow("block.", counter)

	code := sf.Throw(nil, uevent.EventFlowDefChanged, "", "pic.")
	assert.Equal(t, uevent.CodeOK, code)
	assert.Equal(t, uint64(0), counter.Snapshot(uevent.EventFlowDefChanged), "non-matching flow-def must not propagate")

	sf.Throw(nil, uevent.EventFlowDefChanged, "", "block.mpeg2video.")
	assert.Equal(t, uint64(1), counter.Snapshot(uevent.EventFlowDefChanged))
}

func TestEventOrderingReadyThenDeadExactlyOnce(t *testing.T) {
	counter := NewCounter(nil)
	counter.Throw(stubPipe{}, uevent.EventReady, "")
	counter.Throw(stubPipe{}, uevent.EventFlowDefChanged, "")
	counter.Throw(stubPipe{}, uevent.EventDead, "")

	require.Equal(t, uint64(1), counter.Snapshot(uevent.EventReady))
	require.Equal(t, uint64(1), counter.Snapshot(uevent.EventDead))
}

func TestPthreadAssertPanicsOffOwnerGoroutine(t *testing.T) {
	assertProbe := NewPthreadAssert(func() bool { return false }, nil)
	assert.Panics(t, func() {
		assertProbe.Throw(nil, uevent.EventReady, "")
	})
}
