package uprobe

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Provider answers one need-* event with a cached resource: the
// standard uref-mgr / ubuf-mgr / uclock / upump-mgr provider probes
// all share this shape.
type Provider struct {
	Base
	event    uevent.Event
	resource any
}

// NewProvider creates a provider probe answering the given need event
// with resource whenever it is thrown with a *upipeiface.Request as
// its first argument.
func NewProvider(event uevent.Event, resource any, next upipeiface.Probe) *Provider {
	return &Provider{Base: Base{Next: next}, event: event, resource: resource}
}

func (p *Provider) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if event != p.event || len(args) == 0 {
		return p.ThrowNext(pipe, event, sig, args...)
	}
	req, ok := args[0].(*upipeiface.Request)
	if !ok {
		return p.ThrowNext(pipe, event, sig, args...)
	}
	req.Answer(p.resource)
	return uevent.CodeOK
}

var _ upipeiface.Probe = (*Provider)(nil)

// NewUrefMgrProvider, NewUbufMgrProvider, NewUclockProvider and
// NewUpumpMgrProvider are the four standard provider instances, thin
// constructors over Provider for readability at the call site.
func NewUrefMgrProvider(mgr any, next upipeiface.Probe) *Provider {
	return NewProvider(uevent.EventNeedUrefMgr, mgr, next)
}

func NewUbufMgrProvider(mgr any, next upipeiface.Probe) *Provider {
	return NewProvider(uevent.EventNeedUbufMgr, mgr, next)
}

func NewUclockProvider(clock any, next upipeiface.Probe) *Provider {
	return NewProvider(uevent.EventNeedUclock, clock, next)
}

func NewUpumpMgrProvider(mgr any, next upipeiface.Probe) *Provider {
	return NewProvider(uevent.EventNeedUpumpMgr, mgr, next)
}
