package transfer

import (
	"sync"

	"github.com/openheadend/upipe-go/internal/helpers"
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Proxy is the loop-A-side pipe handle Mgr.Alloc returns: a
// local stand-in that looks like any other upipeiface.Pipe to loop A's
// code, but marshals every Input/Control call into an Envelope pushed
// onto the link's outbound queue.
type Proxy struct {
	helpers.Refcount
	in    helpers.Input
	link  *Link
	sig   uevent.Signature
	probe upipeiface.Probe

	mu sync.Mutex
}

func newProxy(link *Link, sig uevent.Signature, probe upipeiface.Probe) *Proxy {
	p := &Proxy{link: link, sig: sig, probe: probe}
	p.InitRefcount(func() {
		p.link.Out.Push(Envelope{Kind: KindRelease, Proxy: p})
	})
	return p
}

func (p *Proxy) Use() upipeiface.Pipe { p.Refcount.Use(); return p }
func (p *Proxy) Release()             { p.Refcount.Release() }

// Input marshals u into an Envelope and pushes it to loop B. If the
// queue is at capacity, u is held locally and pump is blocked until an
// AnswerDrained answer arrives from B, applying backpressure to the
// producer until queue depth drops.
func (p *Proxy) Input(u *uref.Uref, pump *upump.Pump) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.in.CheckInput() {
		p.in.Hold(u)
		p.in.Block(pump)
		return
	}
	if err := p.link.Out.Push(Envelope{Kind: KindInput, Proxy: p, Uref: u}); err != nil {
		p.in.Hold(u)
		p.in.Block(pump)
	}
}

// Control marshals cmd/args into an Envelope and pushes it. Transfer
// control completes synchronously from the caller's point of view; the
// real pipe's outcome comes back later as an AnswerControlResult, which
// deliverAnswer discards, so it reaches neither this call's return
// value nor the proxy's probe chain.
func (p *Proxy) Control(cmd uevent.Command, args ...any) (uevent.Code, error) {
	if err := p.link.Out.Push(Envelope{Kind: KindControl, Proxy: p, Cmd: cmd, Args: args}); err != nil {
		return uevent.CodeBusy, err
	}
	return uevent.CodeOK, nil
}

// drainRetry re-attempts delivery of held urefs once an AnswerDrained
// signals loop B made progress; invoked from the link's answer handler
// running on loop A.
func (p *Proxy) drainRetry() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.in.Drain(func(u *uref.Uref) bool {
		return p.link.Out.Push(Envelope{Kind: KindInput, Proxy: p, Uref: u}) == nil
	})
}

// deliverAnswer applies an answer addressed to this proxy, running on
// loop A: forwarding thrown events to the probe chain that allocated
// it, or retrying held input on a drain notification.
func (p *Proxy) deliverAnswer(a Answer) {
	switch a.Kind {
	case AnswerEvent:
		if p.probe != nil {
			p.probe.Throw(p, a.Event, a.Sig, a.EventArgs...)
		}
	case AnswerDrained:
		p.drainRetry()
	}
}

var _ upipeiface.Pipe = (*Proxy)(nil)
