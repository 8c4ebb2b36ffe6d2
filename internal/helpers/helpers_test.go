package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

func TestRefcountHelperCallsFreeOnce(t *testing.T) {
	var r Refcount
	freed := 0
	r.InitRefcount(func() { freed++ })

	r.Use()
	r.Release()
	assert.False(t, r.Dead())
	r.Release()
	assert.True(t, r.Dead())
	assert.Equal(t, 1, freed)
}

func TestInputHelperHoldsInFIFOOrderAndDrains(t *testing.T) {
	mgr := uref.NewMgr()
	var in Input

	a := mgr.Alloc()
	b := mgr.Alloc()
	c := mgr.Alloc()
	in.Hold(a)
	in.Hold(b)
	in.Hold(c)
	assert.Equal(t, 3, in.Len())

	var order []*uref.Uref
	in.Drain(func(u *uref.Uref) bool {
		order = append(order, u)
		return true
	})
	require.Len(t, order, 3)
	assert.Same(t, a, order[0])
	assert.Same(t, b, order[1])
	assert.Same(t, c, order[2])
	assert.True(t, in.CheckInput())
}

func TestInputHelperDrainStopsOnObstruction(t *testing.T) {
	mgr := uref.NewMgr()
	var in Input
	a := mgr.Alloc()
	b := mgr.Alloc()
	in.Hold(a)
	in.Hold(b)

	seen := 0
	in.Drain(func(u *uref.Uref) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen)
	assert.Equal(t, 2, in.Len(), "a re-held obstruction must not shrink the queue")
}

type recordingPipe struct {
	inputs []*uref.Uref
	ctrls  []uevent.Command
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

func TestOutputHelperResendsFlowDefOnNewOutput(t *testing.T) {
	mgr := uref.NewMgr()
	var out Output
	def := mgr.Alloc()
	def.SetFlowDef("block.")
	out.StoreFlowDef(def)

	downstream := &recordingPipe{}
	out.SetOutput(downstream)
	require.Len(t, downstream.ctrls, 1)
	assert.Equal(t, uevent.CommandSetFlowDef, downstream.ctrls[0])
}

func TestOutputHelperEmitForwardsToOutput(t *testing.T) {
	mgr := uref.NewMgr()
	var out Output
	downstream := &recordingPipe{}
	out.SetOutput(downstream)

	u := mgr.Alloc()
	out.Emit(u, nil)
	require.Len(t, downstream.inputs, 1)
	assert.Same(t, u, downstream.inputs[0])
}

func TestOutputHelperEmitWithNoOutputDropsSilently(t *testing.T) {
	mgr := uref.NewMgr()
	var out Output
	assert.NotPanics(t, func() { out.Emit(mgr.Alloc(), nil) })
}

func TestManagerHelperProvideRevokeFiresCheck(t *testing.T) {
	var h UrefMgrHelper
	fired := 0
	h.SetCheck(func() { fired++ })

	mgr := uref.NewMgr()
	h.Provide(mgr)
	got, ok := h.Get()
	assert.True(t, ok)
	assert.Same(t, mgr, got)
	assert.Equal(t, 1, fired)

	h.Revoke()
	_, ok = h.Get()
	assert.False(t, ok)
	assert.Equal(t, 2, fired)
}

func TestSubPipeHelperAttachDetachIsAcyclic(t *testing.T) {
	var super SubPipeHelper
	sub := &recordingPipe{}
	super.Attach(sub)
	assert.Len(t, super.Subs(), 1)

	var back SuperPipe
	back.SetSuper(sub)
	assert.Same(t, upipeiface.Pipe(sub), back.Super())

	super.Detach(sub)
	assert.Empty(t, super.Subs())
}
