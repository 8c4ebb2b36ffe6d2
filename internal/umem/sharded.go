package umem

import (
	"sync"
	"sync/atomic"
)

// ShardedMgr spreads allocation/free traffic across a fixed number of
// independently-locked shards instead of one pool guarded by a single
// lock, so concurrent pipe goroutines allocating similarly-sized
// regions don't serialize on each other. Grounded on backend/mem.go's
// Memory type: that backend divides a fixed-size device into
// ShardSize-byte regions, each with its own sync.RWMutex, so reads and
// writes to different regions proceed in parallel; this manager
// applies the same "many small locks instead of one big one" idea to
// allocation, dividing work across shards instead of across byte
// ranges of a single device (there is no fixed device size or byte
// addressing to shard by in an arbitrary-size allocator).
type ShardedMgr struct {
	next   atomic.Uint64
	shards []memShard
}

type memShard struct {
	mu   sync.Mutex
	free map[int][][]byte
}

// NewShardedMgr creates a manager with the given shard count. Each
// shard keeps its own free-list keyed by region length, so same-size
// regions freed on one shard are recycled without touching any other
// shard's lock.
func NewShardedMgr(numShards int) *ShardedMgr {
	if numShards < 1 {
		numShards = 1
	}
	m := &ShardedMgr{shards: make([]memShard, numShards)}
	for i := range m.shards {
		m.shards[i].free = make(map[int][][]byte)
	}
	return m
}

// shardFor picks a shard by round-robin, the same load-spreading goal
// backend/mem.go's shardRange serves for byte offsets.
func (m *ShardedMgr) shardFor() int {
	return int(m.next.Add(1) % uint64(len(m.shards)))
}

func (m *ShardedMgr) Alloc(size int) (Mem, error) {
	idx := m.shardFor()
	s := &m.shards[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	if bufs, ok := s.free[size]; ok && len(bufs) > 0 {
		buf := bufs[len(bufs)-1]
		s.free[size] = bufs[:len(bufs)-1]
		return Mem{Buf: buf, shard: idx, sharded: true}, nil
	}
	return Mem{Buf: make([]byte, size), shard: idx, sharded: true}, nil
}

func (m *ShardedMgr) Realloc(mem Mem, newSize int) (Mem, error) {
	if newSize <= cap(mem.Buf) {
		return Mem{Buf: mem.Buf[:newSize], shard: mem.shard, sharded: mem.sharded}, nil
	}
	nm, err := m.Alloc(newSize)
	if err != nil {
		return Mem{}, err
	}
	copy(nm.Buf, mem.Buf)
	m.Free(mem)
	return nm, nil
}

func (m *ShardedMgr) Free(mem Mem) {
	if !mem.sharded {
		return
	}
	s := &m.shards[mem.shard]
	s.mu.Lock()
	defer s.mu.Unlock()
	s.free[len(mem.Buf)] = append(s.free[len(mem.Buf)], mem.Buf)
}

var _ Mgr = (*ShardedMgr)(nil)
