package upipe

import (
	"time"

	"github.com/openheadend/upipe-go/internal/uclock"
	"github.com/openheadend/upipe-go/internal/ubuf"
	"github.com/openheadend/upipe-go/internal/umem"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// NewSimpleMemMgr returns an unpooled umem manager that allocates
// directly from the Go heap.
func NewSimpleMemMgr() umem.Mgr { return umem.SimpleMgr{} }

// NewPoolMemMgr returns a pool-bucketed umem manager, reusing freed
// regions up to depth entries per size bucket.
func NewPoolMemMgr(depth int) umem.Mgr { return umem.NewPoolMgr(depth) }

// NewShardedMemMgr returns a umem manager that spreads allocation/free
// traffic across numShards independently-locked shards, for pipelines
// whose concurrent allocators would otherwise contend on one lock.
func NewShardedMemMgr(numShards int) umem.Mgr { return umem.NewShardedMgr(numShards) }

// NewUrefMgr creates a uref factory with the core's hot attributes
// pre-registered as udict shorthands.
func NewUrefMgr() *UrefMgr { return uref.NewMgr() }

// NewBlockMgr creates a ubuf manager producing Block buffers backed by
// mem.
func NewBlockMgr(mem umem.Mgr) *ubuf.BlockMgr { return ubuf.NewBlockMgr(mem) }

// NewPicMgr creates a ubuf manager producing Picture buffers with the
// given plane layout, backed by mem.
func NewPicMgr(mem umem.Mgr, planes []ubuf.PlaneDesc, align int) *ubuf.PicMgr {
	return ubuf.NewPicMgr(mem, planes, align)
}

// NewSoundMgr creates a ubuf manager producing Sound buffers with the
// given channel layout, backed by mem.
func NewSoundMgr(mem umem.Mgr, channels []ubuf.ChannelDesc) *ubuf.SoundMgr {
	return ubuf.NewSoundMgr(mem, channels)
}

// NewPumpMgr creates an event-loop manager with its own epoll instance
// and cross-thread transfer queue. Exactly one goroutine should call
// Run on the result: one loop per OS thread.
func NewPumpMgr() (*PumpMgr, error) { return upump.NewMgr() }

// NewSystemClock creates a wall-clock-backed Clock in 27 MHz ticks,
// epoched at the moment it is created.
func NewSystemClock() Clock { return uclock.NewSystemClock(time.Now()) }

// NewManualClock creates a deterministic, manually-advanced test
// clock starting at the given tick count.
func NewManualClock(start int64) *uclock.Manual { return uclock.NewManual(start) }
