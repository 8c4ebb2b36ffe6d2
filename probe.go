package upipe

import "github.com/openheadend/upipe-go/internal/upipeiface"

// Probe, Pipe, Manager and Request are re-exported from
// internal/upipeiface, the narrow interfaces that stand in for a
// vtable-style trait object.
type (
	Probe   = upipeiface.Probe
	Pipe    = upipeiface.Pipe
	Manager = upipeiface.Manager
	Request = upipeiface.Request
)

// NewRequest creates a request with the given completion callback.
func NewRequest(t RequestType, flowDef *Uref, answer func(result any)) *Request {
	return upipeiface.NewRequest(t, flowDef, answer)
}
