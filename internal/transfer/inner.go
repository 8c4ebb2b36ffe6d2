package transfer

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Inner lives on loop B: it dequeues Envelopes pushed by proxies on
// loop A (registered as the link's outbound queue handler) and drives
// the real pipes they stand in for, answering back through the link's
// inbound-to-A queue.
type Inner struct {
	link *Link
	mgr  upipeiface.Manager
	real map[*Proxy]upipeiface.Pipe
}

// NewInner creates the loop-B counterpart bound to link, allocating
// real pipes from mgr for incoming KindAlloc envelopes. It registers
// itself as link.Out's handler; the caller must still Start()
// link.Out.Pump() on loop B.
func NewInner(link *Link, mgr upipeiface.Manager) *Inner {
	in := &Inner{link: link, mgr: mgr, real: make(map[*Proxy]upipeiface.Pipe)}
	link.Out.SetHandler(func(item any) { in.handle(item) })
	return in
}

func (in *Inner) handle(item any) {
	env, ok := item.(Envelope)
	if !ok {
		return
	}
	switch env.Kind {
	case KindAlloc:
		pipe, err := in.mgr.Alloc(innerProbe{in: in, proxy: env.Proxy}, env.Args...)
		if err == nil {
			in.real[env.Proxy] = pipe
		}
	case KindInput:
		if pipe, ok := in.real[env.Proxy]; ok {
			pipe.Input(env.Uref, nil)
		}
		in.link.In.Push(Answer{Kind: AnswerDrained, Proxy: env.Proxy})
	case KindControl:
		if pipe, ok := in.real[env.Proxy]; ok {
			code, err := pipe.Control(env.Cmd, env.Args...)
			in.link.In.Push(Answer{Kind: AnswerControlResult, Proxy: env.Proxy, Code: code, Err: err})
		}
	case KindRelease:
		if pipe, ok := in.real[env.Proxy]; ok {
			pipe.Release()
			delete(in.real, env.Proxy)
		}
	}
}

// innerProbe forwards every event a real pipe on loop B throws back
// across the link to the proxy's own probe chain on loop A.
type innerProbe struct {
	in    *Inner
	proxy *Proxy
}

func (ip innerProbe) Throw(_ upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	ip.in.link.In.Push(Answer{Kind: AnswerEvent, Proxy: ip.proxy, Event: event, Sig: sig, EventArgs: args})
	return uevent.CodeOK
}

var _ upipeiface.Probe = innerProbe{}
