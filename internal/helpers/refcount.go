// Package helpers implements the reusable pipe mixins: refcount
// ownership, input hold-queue/blocker bookkeeping, output linkage and
// request pass-through, manager-acquisition-via-request tracking for
// ubuf/upump/uclock/uref managers, and sub-pipe parent/child lifetime.
//
// These are composed structs embedded by concrete pipe types, not
// inherited base classes: each mixin carries its own explicit state
// and a pipe embeds as many of them as it needs.
package helpers

import "github.com/openheadend/upipe-go/internal/refcount"

// Refcount is the refcount-helper mixin: it embeds a refcount that
// owns pipe destruction.
type Refcount struct {
	rc *refcount.Refcount
}

// InitRefcount wires the mixin's refcount to free, called when the
// owning pipe's count reaches zero.
func (r *Refcount) InitRefcount(free func()) {
	r.rc = refcount.New(free)
}

func (r *Refcount) Use()          { r.rc.Use() }
func (r *Refcount) Release()      { r.rc.Release() }
func (r *Refcount) Dead() bool    { return r.rc.Dead() }
func (r *Refcount) Count() int64  { return r.rc.Count() }
