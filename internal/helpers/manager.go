package helpers

import "github.com/openheadend/upipe-go/internal/upipeiface"

// managerHelper is the shared shape behind the uref-mgr/ubuf-mgr/
// upump-mgr/uclock helper mixins: track a manager acquired via
// request, re-firing a check callback whenever it is provided or
// revoked. Each concrete resource gets its own named type below so a
// pipe embeds exactly the ones it needs and call sites read as
// "h.UbufMgr.Provide(...)" rather than a bag of generic fields.
type managerHelper[T any] struct {
	mgr     T
	has     bool
	pending *upipeiface.Request
	check   func()
}

// Provide installs mgr as the acquired resource and fires check, the
// way a Provider probe answering a request unblocks whatever was
// waiting on it.
func (m *managerHelper[T]) Provide(mgr T) {
	m.mgr = mgr
	m.has = true
	if m.check != nil {
		m.check()
	}
}

// Revoke clears the acquired resource (e.g. on uclock reset) and fires
// check again so the owner can re-request it.
func (m *managerHelper[T]) Revoke() {
	var zero T
	m.mgr = zero
	m.has = false
	if m.check != nil {
		m.check()
	}
}

// Get returns the acquired resource and whether one has been provided.
func (m *managerHelper[T]) Get() (T, bool) { return m.mgr, m.has }

// SetCheck installs the callback re-fired on Provide/Revoke, typically
// a pipe's own check-input routine re-trying the deferred operation.
func (m *managerHelper[T]) SetCheck(check func()) { m.check = check }

// Request stores the in-flight request object so a later answer can be
// correlated back to it, and returns it for the caller to register
// with an Output helper or throw upstream.
func (m *managerHelper[T]) Request(req *upipeiface.Request) *upipeiface.Request {
	m.pending = req
	return req
}

// Pending returns the in-flight request, or nil if none or already
// answered.
func (m *managerHelper[T]) Pending() *upipeiface.Request {
	if m.pending != nil && m.pending.Answered {
		m.pending = nil
	}
	return m.pending
}
