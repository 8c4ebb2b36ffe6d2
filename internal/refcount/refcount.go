// Package refcount implements the atomic strong-count with on-zero
// destructor callback that every upipe object (pipes, urefs, ubufs,
// managers) is built on.
package refcount

import "sync/atomic"

// Refcount is an atomic non-negative integer with a stored destructor.
// It is initialized at 1 by New; Use increments, Release decrements, and
// the destructor runs exactly once, synchronously, on whichever Release
// call brings the count to zero.
//
// A nil *Refcount is "static": it denotes an object that lives forever,
// and Use/Release/Dead on it are no-ops. This mirrors the C core's
// convention of a null refcount pointer for immortal singletons.
type Refcount struct {
	count int64
	dead  int32
	free  func()
}

// New returns a Refcount initialized to 1 that invokes free when the
// count reaches zero. free must be non-nil; pass a no-op func for
// objects that only need liveness tracking.
func New(free func()) *Refcount {
	return &Refcount{count: 1, free: free}
}

// Static returns a refcount that never dies: Use/Release are no-ops
// and Dead always reports false. Used for process-lifetime singletons.
func Static() *Refcount {
	return nil
}

// Use increments the count. It must not be called after the destructor
// has begun running; doing so is a programming error the core does not
// attempt to detect.
func (r *Refcount) Use() {
	if r == nil {
		return
	}
	atomic.AddInt64(&r.count, 1)
}

// Release decrements the count and runs the destructor iff this call
// brought the count to zero. It returns true iff the destructor ran.
func (r *Refcount) Release() bool {
	if r == nil {
		return false
	}
	if atomic.AddInt64(&r.count, -1) == 0 {
		atomic.StoreInt32(&r.dead, 1)
		if r.free != nil {
			r.free()
		}
		return true
	}
	return false
}

// Dead reports whether the destructor has begun running. A static
// (nil) refcount is never dead.
func (r *Refcount) Dead() bool {
	if r == nil {
		return false
	}
	return atomic.LoadInt32(&r.dead) != 0
}

// Count returns the current strong count, for diagnostics and tests
// only; callers must not make correctness decisions based on a value
// that can change concurrently.
func (r *Refcount) Count() int64 {
	if r == nil {
		return -1
	}
	return atomic.LoadInt64(&r.count)
}
