// Package uprobe implements the standard probe chain: stdio logging,
// name prefixing, resource-provider probes, flow-def filtering, thread
// assertion, and event counting.
//
// Each probe either handles an event or forwards it to Next, so the
// chain composes arbitrarily deep. The stdio probe carries a per-event
// mask table with clock-ref/clock-ts masked off by default, and logs
// through the shared leveled logger rather than writing directly. The
// counting probe keeps atomic per-event counters behind a
// Snapshot-style read.
package uprobe

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Base is embedded by every concrete probe: it holds the Next link and
// gives ThrowNext a place to live, the way each standard probe
// composes with the next one in the chain.
type Base struct {
	Next upipeiface.Probe
}

// ThrowNext forwards the event to the next probe in the chain,
// returning CodeUnhandled if there is none. It logs nothing, and no
// probe in this package logs a warning when an event reaches the end
// of the chain unhandled.
func (b *Base) ThrowNext(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if b.Next == nil {
		return uevent.CodeUnhandled
	}
	return b.Next.Throw(pipe, event, sig, args...)
}
