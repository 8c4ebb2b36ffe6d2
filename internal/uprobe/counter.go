package uprobe

import (
	"sync/atomic"

	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// numCoreEvents bounds the fixed-size counter array; EventLocal
// (module-specific events) are tallied in a single bucket rather than
// per-signature, keeping this a lossless-for-core-events, bounded-
// memory counter.
const numCoreEvents = int(uevent.EventLocal) + 1

// Counter tallies how many times each core event fires, using one
// atomic.Uint64 per event and a Snapshot-style read.
type Counter struct {
	Base
	counts [numCoreEvents]atomic.Uint64
}

// NewCounter creates a counting probe forwarding every event to next.
func NewCounter(next upipeiface.Probe) *Counter {
	return &Counter{Base: Base{Next: next}}
}

func (c *Counter) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if int(event) < numCoreEvents {
		c.counts[event].Add(1)
	}
	return c.ThrowNext(pipe, event, sig, args...)
}

// Snapshot returns the current count for one event.
func (c *Counter) Snapshot(event uevent.Event) uint64 {
	if int(event) >= numCoreEvents {
		return 0
	}
	return c.counts[event].Load()
}

var _ upipeiface.Probe = (*Counter)(nil)
