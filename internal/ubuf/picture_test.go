package ubuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheadend/upipe-go/internal/umem"
)

func i420Planes() []PlaneDesc {
	return []PlaneDesc{
		{Name: "y8", HSub: 1, VSub: 1, MacroBW: 1},
		{Name: "u8", HSub: 2, VSub: 2, MacroBW: 1},
		{Name: "v8", HSub: 2, VSub: 2, MacroBW: 1},
	}
}

func TestPictureCrop(t *testing.T) {
	mgr := NewPicMgr(umem.SimpleMgr{}, i420Planes(), 1)
	pic, err := mgr.Alloc(32, 32, 4, 4)
	require.NoError(t, err)

	for row := 0; row < 32; row++ {
		data, stride, err := pic.PlaneWrite("y8", 0, row, 32, 1)
		require.NoError(t, err)
		for col := 0; col < 32; col++ {
			data[col] = byte(row*32 + col)
		}
		_ = stride
	}

	require.NoError(t, pic.Resize(2, 2, -1, -1))
	require.NoError(t, pic.Resize(0, 0, 28, 28))

	w, h := pic.Size()
	assert.Equal(t, 28, w)
	assert.Equal(t, 28, h)

	data, _, err := pic.PlaneRead("y8", 0, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(2*32+2), data[0])
}

func TestPictureReplaceCopiesContent(t *testing.T) {
	mgr := NewPicMgr(umem.SimpleMgr{}, i420Planes(), 1)
	pic, err := mgr.Alloc(4, 4, 0, 0)
	require.NoError(t, err)
	data, _, err := pic.PlaneWrite("y8", 0, 0, 4, 1)
	require.NoError(t, err)
	copy(data, []byte{1, 2, 3, 4})

	replaced, err := pic.Replace(8, 8, 0, 0)
	require.NoError(t, err)
	rdata, _, err := replaced.PlaneRead("y8", 0, 0, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, rdata)
}

func TestPictureCopyOnWriteSharedRejected(t *testing.T) {
	mgr := NewPicMgr(umem.SimpleMgr{}, i420Planes(), 1)
	pic, err := mgr.Alloc(4, 4, 0, 0)
	require.NoError(t, err)
	sibling := pic.Use()
	_, _, err = pic.PlaneWrite("y8", 0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrWouldCopy)
	sibling.Release()
	pic.Release()
}
