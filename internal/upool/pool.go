// Package upool implements a bounded, lock-free LIFO cache of recycled
// objects: an explicit, fixed-depth Treiber stack built on a single
// atomic head pointer and compare-and-swap, with no intermediate
// locks and no GC-driven eviction policy deciding when an entry is
// reclaimed.
package upool

import "sync/atomic"

type node[T any] struct {
	value T
	next  *node[T]
}

// Pool is a bounded LIFO of recycled T values. The zero value is not
// usable; construct with New.
type Pool[T any] struct {
	head  atomic.Pointer[node[T]]
	depth atomic.Int64
	max   int64

	alloc func() T
	free  func(T)
}

// New creates a pool with the given fixed capacity. alloc is called by
// Alloc when the cache is empty (Pop never calls it). free is called by
// Free for a value the full pool cannot take, and by Vacuum for every
// cached element.
func New[T any](depth int, alloc func() T, free func(T)) *Pool[T] {
	return &Pool[T]{max: int64(depth), alloc: alloc, free: free}
}

// Pop returns a recycled value and true, or the zero value and false if
// the cache is empty — in which case the caller is expected to invoke
// its own allocator (or Pool.Alloc, if one was configured).
func (p *Pool[T]) Pop() (T, bool) {
	for {
		head := p.head.Load()
		if head == nil {
			var zero T
			return zero, false
		}
		if p.head.CompareAndSwap(head, head.next) {
			p.depth.Add(-1)
			return head.value, true
		}
	}
}

// Alloc pops a recycled value, falling back to the configured
// allocator if the pool is empty.
func (p *Pool[T]) Alloc() T {
	if v, ok := p.Pop(); ok {
		return v
	}
	return p.alloc()
}

// Push offers v to the pool. It returns true if the pool accepted it
// (depth was below capacity) or false if the pool is full, in which
// case the caller must free v itself (e.g. via the configured free
// callback).
func (p *Pool[T]) Push(v T) bool {
	for {
		depth := p.depth.Load()
		if depth >= p.max {
			return false
		}
		if p.depth.CompareAndSwap(depth, depth+1) {
			break
		}
	}
	n := &node[T]{value: v}
	for {
		head := p.head.Load()
		n.next = head
		if p.head.CompareAndSwap(head, n) {
			return true
		}
	}
}

// Free returns v to the pool via Push, or calls the configured free
// callback if the pool is full.
func (p *Pool[T]) Free(v T) {
	if !p.Push(v) && p.free != nil {
		p.free(v)
	}
}

// Vacuum drains the pool, applying the free callback to every cached
// element, and leaves the pool empty. The pool itself remains usable.
func (p *Pool[T]) Vacuum() {
	for {
		v, ok := p.Pop()
		if !ok {
			return
		}
		if p.free != nil {
			p.free(v)
		}
	}
}

// Depth reports the current number of cached elements, for diagnostics
// and tests only.
func (p *Pool[T]) Depth() int {
	return int(p.depth.Load())
}
