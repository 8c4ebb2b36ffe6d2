package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go"
)

func TestDupFansOutDistinctCopiesToEachBranch(t *testing.T) {
	mgr := NewDupMgr()
	probe := newCountingProbe()
	pipe, err := mgr.Alloc(probe)
	require.NoError(t, err)
	dup := pipe.(*Dup)

	sinkA := &recordingSink{}
	sinkB := &recordingSink{}

	var branchA, branchB upipe.Pipe
	code, err := dup.Control(upipe.CommandLocal, DupAllocOutput, func(p upipe.Pipe) { branchA = p })
	require.NoError(t, err)
	require.Equal(t, upipe.CodeOK, code)
	code, err = dup.Control(upipe.CommandLocal, DupAllocOutput, func(p upipe.Pipe) { branchB = p })
	require.NoError(t, err)
	require.Equal(t, upipe.CodeOK, code)

	branchA.(*DupOutput).Output.SetOutput(sinkA)
	branchB.(*DupOutput).Output.SetOutput(sinkB)

	urefMgr := upipe.NewUrefMgr()
	u := urefMgr.Alloc()
	u.SetFlowDef("block.")

	dup.Input(u, nil)

	require.Len(t, sinkA.received, 1)
	require.Len(t, sinkB.received, 1)
	assert.NotSame(t, sinkA.received[0], sinkB.received[0])
	defA, _ := sinkA.received[0].FlowDef()
	defB, _ := sinkB.received[0].FlowDef()
	assert.Equal(t, "block.", defA)
	assert.Equal(t, "block.", defB)

	assert.Len(t, dup.Subs(), 2)
}

func TestDupControlUnhandledForUnknownLocalCommand(t *testing.T) {
	mgr := NewDupMgr()
	pipe, err := mgr.Alloc(newCountingProbe())
	require.NoError(t, err)
	dup := pipe.(*Dup)

	code, err := dup.Control(upipe.CommandLocal, "not-a-real-command")
	require.NoError(t, err)
	assert.Equal(t, upipe.CodeUnhandled, code)

	code, err = dup.Control(upipe.CommandSetFlowDef)
	require.NoError(t, err)
	assert.Equal(t, upipe.CodeUnhandled, code)
}
