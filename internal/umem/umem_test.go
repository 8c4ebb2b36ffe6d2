package umem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleMgrAllocRealloc(t *testing.T) {
	var mgr SimpleMgr
	m, err := mgr.Alloc(16)
	require.NoError(t, err)
	require.Len(t, m.Buf, 16)

	copy(m.Buf, []byte("0123456789abcdef"))
	grown, err := mgr.Realloc(m, 32)
	require.NoError(t, err)
	assert.Len(t, grown.Buf, 32)
	assert.Equal(t, []byte("0123456789abcdef"), grown.Buf[:16])
}

func TestPoolMgrRecyclesBuckets(t *testing.T) {
	mgr := NewPoolMgr(2)
	m1, err := mgr.Alloc(1000)
	require.NoError(t, err)
	require.Equal(t, 1000, len(m1.Buf))
	require.Equal(t, 128*1024, cap(m1.Buf))

	mgr.Free(m1)
	m2, err := mgr.Alloc(2000)
	require.NoError(t, err)
	assert.Equal(t, 128*1024, cap(m2.Buf), "recycled bucket reused for a same-bucket request")
}

func TestPoolMgrOverflowSizeIsUnpooled(t *testing.T) {
	mgr := NewPoolMgr(1)
	m, err := mgr.Alloc(2 << 20)
	require.NoError(t, err)
	assert.Equal(t, 2<<20, cap(m.Buf))
	mgr.Free(m) // must not panic on a non-bucket capacity
}

func TestPoolMgrVacuum(t *testing.T) {
	mgr := NewPoolMgr(4)
	m, _ := mgr.Alloc(100)
	mgr.Free(m)
	mgr.Vacuum()
	assert.Equal(t, 0, mgr.buckets[0].Depth())
}

func TestShardedMgrRecyclesSameSizeRegion(t *testing.T) {
	mgr := NewShardedMgr(4)
	m1, err := mgr.Alloc(256)
	require.NoError(t, err)
	require.Len(t, m1.Buf, 256)

	mgr.Free(m1)
	m2, err := mgr.Alloc(256)
	require.NoError(t, err)
	assert.Len(t, m2.Buf, 256)
}

func TestShardedMgrRealloc(t *testing.T) {
	mgr := NewShardedMgr(2)
	m, err := mgr.Alloc(16)
	require.NoError(t, err)
	copy(m.Buf, []byte("0123456789abcdef"))

	grown, err := mgr.Realloc(m, 32)
	require.NoError(t, err)
	assert.Len(t, grown.Buf, 32)
	assert.Equal(t, []byte("0123456789abcdef"), grown.Buf[:16])
}

func TestShardedMgrSpreadsAcrossShards(t *testing.T) {
	mgr := NewShardedMgr(8)
	seen := make(map[int]bool)
	for i := 0; i < 64; i++ {
		seen[mgr.shardFor()] = true
	}
	assert.Greater(t, len(seen), 1, "round-robin shard selection should touch more than one shard")
}
