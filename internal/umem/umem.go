// Package umem implements the opaque memory-arena abstraction: it maps
// a requested byte count to an allocated region plus its actual
// capacity, and lets that region be freed back through the same
// manager that produced it.
//
// Three managers are provided: a bare unpooled allocator, a
// pool-bucketed allocator recycling fixed power-of-2 sizes through
// upool's bounded lock-free LIFO, and a sharded-locking allocator for
// pipelines whose concurrent allocation traffic would otherwise
// contend on one lock.
package umem

import "github.com/openheadend/upipe-go/internal/upool"

// Mem is an allocated region: Buf is sized exactly to the caller's
// request, but may have spare capacity up to cap(Buf) that Realloc can
// grow into without moving the data. shard/sharded are set only by
// ShardedMgr, to route Free back to the shard that produced the
// region without every other Mgr needing to care about them.
type Mem struct {
	Buf     []byte
	shard   int
	sharded bool
}

// Mgr allocates and frees Mem regions.
type Mgr interface {
	// Alloc returns a region of at least size bytes.
	Alloc(size int) (Mem, error)
	// Realloc grows or shrinks m to newSize, growing in place when the
	// backing capacity allows it and migrating (copying) otherwise.
	Realloc(m Mem, newSize int) (Mem, error)
	// Free releases a region back to this manager.
	Free(Mem)
}

// SimpleMgr allocates directly from the Go heap with no pooling. It is
// the trivial Mgr implementation, analogous to a bare malloc/free pair.
type SimpleMgr struct{}

func (SimpleMgr) Alloc(size int) (Mem, error) {
	return Mem{Buf: make([]byte, size)}, nil
}

func (SimpleMgr) Realloc(m Mem, newSize int) (Mem, error) {
	if newSize <= cap(m.Buf) {
		return Mem{Buf: m.Buf[:newSize]}, nil
	}
	nb := make([]byte, newSize)
	copy(nb, m.Buf)
	return Mem{Buf: nb}, nil
}

func (SimpleMgr) Free(Mem) {}

// bucket sizes form a 128K/256K/512K/1M ladder; requests larger than
// the top bucket fall through to a direct, unpooled allocation.
var bucketSizes = []int{128 * 1024, 256 * 1024, 512 * 1024, 1024 * 1024}

// PoolMgr recycles fixed-size regions through one upool.Pool per
// bucket, avoiding hot-path allocation for the common buffer sizes a
// pipeline churns through (block ubuf backing storage, I/O staging
// buffers).
type PoolMgr struct {
	depth   int
	buckets []*upool.Pool[[]byte]
}

// NewPoolMgr creates a pooled manager whose per-bucket pools each hold
// up to depth recycled buffers.
func NewPoolMgr(depth int) *PoolMgr {
	m := &PoolMgr{depth: depth}
	for _, size := range bucketSizes {
		size := size
		m.buckets = append(m.buckets, upool.New(depth,
			func() []byte { return make([]byte, size) },
			func([]byte) {}))
	}
	return m
}

func (m *PoolMgr) bucketFor(size int) (*upool.Pool[[]byte], int) {
	for i, bs := range bucketSizes {
		if size <= bs {
			return m.buckets[i], bs
		}
	}
	return nil, 0
}

func (m *PoolMgr) Alloc(size int) (Mem, error) {
	if b, bs := m.bucketFor(size); b != nil {
		buf := b.Alloc()
		return Mem{Buf: buf[:size:bs]}, nil
	}
	return Mem{Buf: make([]byte, size)}, nil
}

func (m *PoolMgr) Realloc(mem Mem, newSize int) (Mem, error) {
	if newSize <= cap(mem.Buf) {
		return Mem{Buf: mem.Buf[:newSize]}, nil
	}
	nm, err := m.Alloc(newSize)
	if err != nil {
		return Mem{}, err
	}
	copy(nm.Buf, mem.Buf)
	m.Free(mem)
	return nm, nil
}

func (m *PoolMgr) Free(mem Mem) {
	c := cap(mem.Buf)
	for i, bs := range bucketSizes {
		if c == bs {
			m.buckets[i].Free(mem.Buf[:bs])
			return
		}
	}
	// Non-standard capacity (came from a direct overflow allocation):
	// nothing to recycle, let the GC reclaim it.
}

// Vacuum empties every bucket's pool without affecting live
// allocations, for use as a debug/shutdown tool.
func (m *PoolMgr) Vacuum() {
	for _, b := range m.buckets {
		b.Vacuum()
	}
}

var _ Mgr = SimpleMgr{}
var _ Mgr = (*PoolMgr)(nil)
