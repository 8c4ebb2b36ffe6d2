package upump

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrQueueFull is returned by Queue.Push when the queue is at its
// configured maximum depth; the caller must back off (typically by
// attaching a Blocker to the producer-side pump) until depth drops.
var ErrQueueFull = errors.New("upump: cross-thread queue full")

// Queue is a bounded, multi-writer/single-reader cross-thread
// envelope queue: any thread may Push, but only the owning Mgr's loop
// drains it, via a pump reading an eventfd wakeup. It is the only
// mechanism by which a pipe hosted in one loop receives work pushed
// from another.
//
// The push/pop path is a single mutex around a plain slice rather than
// a true lock-free MPSC ring: it never acquires a second lock while
// holding this one, which is the bar a leaf-level mutex here needs to
// clear (see DESIGN.md for the tradeoff against a lock-free ring).
type Queue struct {
	mgr      *Mgr
	eventfd  int
	pump     *Pump
	maxDepth int

	mu      sync.Mutex
	items   []any
	handler func(any)
}

func newQueue(m *Mgr) (*Queue, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	q := &Queue{mgr: m, eventfd: fd, maxDepth: 1024}
	q.pump = &Pump{mgr: m, kind: KindUserEvent, fd: fd, cb: q.drain}
	return q, nil
}

// SetMaxDepth configures the bound; must be called before the queue is
// used (e.g. right after construction).
func (q *Queue) SetMaxDepth(n int) { q.maxDepth = n }

// SetHandler registers the callback invoked, on the owning loop, for
// every envelope drained from the queue.
func (q *Queue) SetHandler(h func(any)) { q.handler = h }

// Pump returns the reader-side pump; the owner must Start it for the
// queue to be drained.
func (q *Queue) Pump() *Pump { return q.pump }

// Push enqueues an envelope from any thread. Returns ErrQueueFull if
// the queue is at capacity.
func (q *Queue) Push(item any) error {
	q.mu.Lock()
	if len(q.items) >= q.maxDepth {
		q.mu.Unlock()
		return ErrQueueFull
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	var buf [8]byte
	buf[0] = 1
	unix.Write(q.eventfd, buf[:])
	return nil
}

// Depth reports the current queue length, for backpressure decisions.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) drain() {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	if q.handler == nil {
		return
	}
	for _, it := range items {
		q.handler(it)
	}
}

func (q *Queue) close() error {
	return unix.Close(q.eventfd)
}

// Xfer exposes the manager's built-in cross-thread queue: every Mgr
// hosts exactly one finite cross-thread queue.
func (m *Mgr) Xfer() *Queue { return m.xfer }
