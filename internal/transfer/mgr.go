package transfer

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Mgr is the loop-A-facing pipe manager a transfer exposes: Alloc
// returns a Proxy synchronously and pushes a KindAlloc envelope to loop
// B to instantiate the real pipe asynchronously.
type Mgr struct {
	sig  uevent.Signature
	link *Link
}

// NewMgr wires the loop-A-facing manager to link. The caller must
// already have registered an Inner for link on loop B.
func NewMgr(sig uevent.Signature, link *Link) *Mgr {
	link.In.SetHandler(func(item any) {
		if a, ok := item.(Answer); ok && a.Proxy != nil {
			a.Proxy.deliverAnswer(a)
		}
	})
	return &Mgr{sig: sig, link: link}
}

func (m *Mgr) Signature() uevent.Signature { return m.sig }
func (m *Mgr) Use() upipeiface.Manager     { return m }
func (m *Mgr) Release()                    {}

func (m *Mgr) Alloc(probe upipeiface.Probe, args ...any) (upipeiface.Pipe, error) {
	p := newProxy(m.link, m.sig, probe)
	if err := m.link.Out.Push(Envelope{Kind: KindAlloc, Proxy: p, Args: args}); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Mgr) MgrControl(_ uevent.Command, _ ...any) (uevent.Code, error) {
	return uevent.CodeUnhandled, nil
}

var _ upipeiface.Manager = (*Mgr)(nil)
