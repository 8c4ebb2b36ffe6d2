// Package upump implements the event loop: a single-threaded
// cooperative scheduler for timer, fd-read, fd-write, signal, and
// user-event pumps, plus blocker tokens and a cross-thread transfer
// queue. KindSignal is defined and handled when arming, but Mgr has no
// constructor for signal pumps.
//
// A single completion loop is pinned to one OS thread via
// runtime.LockOSThread, driven by a context.Context for cancellation,
// with per-event-source state tracked over epoll-driven fd/timer
// events. Blocker bookkeeping follows one rule throughout: a pump
// already started stays started in the manager's records but only
// actually arms/disarms when its blocker set transitions
// empty/non-empty.
package upump

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// Kind identifies a pump variant.
type Kind int

const (
	KindTimer Kind = iota
	KindFDRead
	KindFDWrite
	KindSignal
	KindUserEvent
)

// Pump is a single event source: a timer, an fd watcher, a signal
// watcher, or a user-event trigger. Created stopped; Start arms it,
// Stop disarms it. A pump attached to one or more live Blockers is
// implicitly disarmed regardless of its own started flag, and
// automatically rearms when the last blocker releases — iff it was
// started.
type Pump struct {
	mgr     *Mgr
	kind    Kind
	fd      int // epoll-registered fd for FDRead/FDWrite/Timer(timerfd)/Signal
	cb      func()
	started bool
	blocked int // live blocker count

	// user-event pumps have no fd; they're fired by UserEvent.Fire.
	userFired bool
}

// Start arms the pump unless it is currently blocked.
func (p *Pump) Start() {
	if p.started {
		return
	}
	p.started = true
	if p.blocked == 0 {
		p.mgr.arm(p)
	}
}

// Stop disarms the pump. Safe to call whether or not it is blocked.
func (p *Pump) Stop() {
	if !p.started {
		return
	}
	p.started = false
	if p.blocked == 0 {
		p.mgr.disarm(p)
	}
}

// Release cancels the pump: pending but unfired events are discarded,
// and the pump is removed from its manager. There is no per-event
// cancellation.
func (p *Pump) Release() {
	p.mgr.release(p)
}

// Blocker is a token that suspends a pump's firing without discarding
// its configured (started) state.
type Blocker struct {
	pump *Pump
}

// NewBlocker attaches a new blocker to p. If this is the first live
// blocker and p was started, p is disarmed immediately.
func NewBlocker(p *Pump) *Blocker {
	p.blocked++
	if p.blocked == 1 && p.started {
		p.mgr.disarm(p)
	}
	return &Blocker{pump: p}
}

// Release detaches the blocker. If it was the last live blocker and
// the pump is started, the pump is rearmed.
func (b *Blocker) Release() {
	if b.pump == nil {
		return
	}
	b.pump.blocked--
	if b.pump.blocked == 0 && b.pump.started {
		b.pump.mgr.arm(b.pump)
	}
	b.pump = nil
}

// Mgr owns one loop's pumps. Exactly one goroutine ever calls Run for
// a given Mgr: one loop per OS thread.
type Mgr struct {
	epfd  int
	pumps map[int]*Pump

	xfer *Queue

	mu      sync.Mutex
	closed  bool
}

// NewMgr creates an event-loop manager with its own epoll instance and
// cross-thread transfer queue.
func NewMgr() (*Mgr, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	m := &Mgr{epfd: epfd, pumps: make(map[int]*Pump)}
	q, err := newQueue(m)
	if err != nil {
		unix.Close(epfd)
		return nil, err
	}
	m.xfer = q
	return m, nil
}

// NewTimer creates a stopped timer pump: periodic if interval > 0,
// one-shot otherwise. cb is invoked on every firing.
func (m *Mgr) NewTimer(deadline, interval int64, cb func()) (*Pump, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, err
	}
	p := &Pump{mgr: m, kind: KindTimer, fd: fd, cb: cb}
	p.timerSpec(deadline, interval)
	return p, nil
}

func (p *Pump) timerSpec(deadline, interval int64) {
	spec := unix.ItimerSpec{
		Value:    unix.NsecToTimespec(deadline),
		Interval: unix.NsecToTimespec(interval),
	}
	_ = unix.TimerfdSettime(p.fd, 0, &spec, nil)
}

// NewFDRead creates a stopped fd-readable watcher.
func (m *Mgr) NewFDRead(fd int, cb func()) *Pump {
	return &Pump{mgr: m, kind: KindFDRead, fd: fd, cb: cb}
}

// NewFDWrite creates a stopped fd-writable watcher.
func (m *Mgr) NewFDWrite(fd int, cb func()) *Pump {
	return &Pump{mgr: m, kind: KindFDWrite, fd: fd, cb: cb}
}

// UserEvent is a pump fired explicitly by the owning loop rather than
// by an fd becoming ready.
type UserEvent struct {
	pump *Pump
}

// NewUserEvent creates a user-event pump. Fire schedules cb to run on
// the next loop turn.
func (m *Mgr) NewUserEvent(cb func()) *UserEvent {
	fd, _ := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	p := &Pump{mgr: m, kind: KindUserEvent, fd: fd, cb: cb}
	return &UserEvent{pump: p}
}

func (u *UserEvent) Pump() *Pump { return u.pump }

// Fire wakes the owning loop so the pump's callback runs on its next
// turn.
func (u *UserEvent) Fire() {
	var buf [8]byte
	buf[0] = 1
	unix.Write(u.pump.fd, buf[:])
}

func (m *Mgr) arm(p *Pump) {
	ev := unix.EpollEvent{Fd: int32(p.fd)}
	switch p.kind {
	case KindFDRead, KindTimer, KindUserEvent, KindSignal:
		ev.Events = unix.EPOLLIN
	case KindFDWrite:
		ev.Events = unix.EPOLLOUT
	}
	m.mu.Lock()
	m.pumps[p.fd] = p
	m.mu.Unlock()
	unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, p.fd, &ev)
}

func (m *Mgr) disarm(p *Pump) {
	unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, p.fd, nil)
	m.mu.Lock()
	delete(m.pumps, p.fd)
	m.mu.Unlock()
}

func (m *Mgr) release(p *Pump) {
	if p.started && p.blocked == 0 {
		m.disarm(p)
	}
	p.started = false
	if p.kind == KindTimer || p.kind == KindUserEvent {
		unix.Close(p.fd)
	}
}

// Run pins the calling goroutine to its OS thread (one loop per OS
// thread) and processes epoll-ready pumps until ctx is cancelled.
func (m *Mgr) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	events := make([]unix.EpollEvent, 64)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := unix.EpollWait(m.epfd, events, 100)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		for i := 0; i < n; i++ {
			m.mu.Lock()
			p, ok := m.pumps[int(events[i].Fd)]
			m.mu.Unlock()
			if !ok {
				continue
			}
			if p.kind == KindTimer || p.kind == KindUserEvent {
				var buf [8]byte
				unix.Read(p.fd, buf[:])
			}
			if p.cb != nil {
				p.cb()
			}
		}
	}
}

// RunOne processes at most one turn's worth of ready pumps without
// blocking indefinitely, for callers that drive the loop by explicit
// calls rather than handing it a goroutine to run in.
func (m *Mgr) RunOne() error {
	events := make([]unix.EpollEvent, 64)
	n, err := unix.EpollWait(m.epfd, events, 0)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		m.mu.Lock()
		p, ok := m.pumps[int(events[i].Fd)]
		m.mu.Unlock()
		if !ok {
			continue
		}
		if p.kind == KindTimer || p.kind == KindUserEvent {
			var buf [8]byte
			unix.Read(p.fd, buf[:])
		}
		if p.cb != nil {
			p.cb()
		}
	}
	return nil
}

// Close releases the manager's epoll instance and transfer queue.
func (m *Mgr) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.xfer.close()
	return unix.Close(m.epfd)
}
