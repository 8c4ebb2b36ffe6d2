package uprobe

import (
	"strings"

	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upipeiface"
)

// SelectFlow suppresses flow-def-changed events whose flow-def string
// does not match a user filter prefix.
type SelectFlow struct {
	Base
	Prefix string
}

// NewSelectFlow creates a select-flow probe matching flow-defs by
// prefix (e.g. "block." matches every compressed/raw byte-stream
// flow-def).
func NewSelectFlow(prefix string, next upipeiface.Probe) *SelectFlow {
	return &SelectFlow{Base: Base{Next: next}, Prefix: prefix}
}

func (s *SelectFlow) Throw(pipe upipeiface.Pipe, event uevent.Event, sig uevent.Signature, args ...any) uevent.Code {
	if event == uevent.EventFlowDefChanged && len(args) > 0 {
		if def, ok := args[0].(string); ok && !strings.HasPrefix(def, s.Prefix) {
			return uevent.CodeOK // swallowed, not forwarded
		}
	}
	return s.ThrowNext(pipe, event, sig, args...)
}

var _ upipeiface.Probe = (*SelectFlow)(nil)
