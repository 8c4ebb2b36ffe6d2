package uprobe

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// Prefix puts a leading ("prefix", name) pair in front of each event's
// args before delegating; it never logs itself. Stdio does not print
// this pair, so the name does not appear in Stdio's log lines.
type Prefix struct {
	Base
	Name string
}

// NewPrefix creates a prefix probe tagging events with name before
// forwarding them to next.
func NewPrefix(name string, next upipeiface.Probe) *Prefix {
	return &Prefix{Base: Base{Next: next}, Name: name}
}

func (p *Prefix) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	tagged := append([]any{"prefix", p.Name}, args...)
	return p.ThrowNext(pipe, event, sig, tagged...)
}

var _ upipeiface.Probe = (*Prefix)(nil)
