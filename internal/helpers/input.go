package helpers

import (
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Input is the input-helper mixin: a FIFO hold-queue plus a blocker
// set, used by a pipe that must defer input processing while some
// resource (e.g. a ubuf manager) is not yet available.
type Input struct {
	head, tail *uref.Uref
	len        int
	blockers   []*upump.Blocker
}

// Hold enqueues u at the tail of the FIFO. A held uref must not also
// be queued elsewhere at the same time.
func (h *Input) Hold(u *uref.Uref) {
	u.SetNext(nil)
	u.SetQueued(true)
	if h.tail == nil {
		h.head = u
	} else {
		h.tail.SetNext(u)
	}
	h.tail = u
	h.len++
}

// Block attaches a blocker to pump, exerting backpressure on whatever
// produced the current input until the pipe drains its hold-queue.
// A nil pump means the caller has no pump to block on.
func (h *Input) Block(pump *upump.Pump) {
	if pump == nil {
		return
	}
	h.blockers = append(h.blockers, upump.NewBlocker(pump))
}

// CheckInput reports whether the hold-queue is empty.
func (h *Input) CheckInput() bool { return h.len == 0 }

// Len reports the number of held urefs.
func (h *Input) Len() int { return h.len }

// Drain processes every held uref in FIFO order via process, releasing
// every blocker once the queue empties. process returning false
// re-holds the remaining queue (including the uref it was given) and
// stops draining, for the case where draining itself hits a new
// obstruction.
func (h *Input) Drain(process func(*uref.Uref) bool) {
	for h.head != nil {
		u := h.head
		next := u.Next()
		if !process(u) {
			return
		}
		h.head = next
		u.SetQueued(false)
		u.SetNext(nil)
		h.len--
	}
	h.tail = nil
	for _, b := range h.blockers {
		b.Release()
	}
	h.blockers = h.blockers[:0]
}
