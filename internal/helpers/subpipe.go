package helpers

import "github.com/openheadend/upipe-go/internal/upipeiface"

// SubPipeHelper is the sub-pipe-helper mixin: a super-pipe holds a
// list of its sub-pipes with a strong reference (it owns their
// lifetime), while each sub-pipe holds only a weak back-pointer to its
// super-pipe, avoiding the reference cycle a naive strong/strong pair
// would create.
type SubPipeHelper struct {
	subs []upipeiface.Pipe
}

// Attach takes a strong reference on sub and adds it to the list.
func (s *SubPipeHelper) Attach(sub upipeiface.Pipe) {
	s.subs = append(s.subs, sub.Use())
}

// Detach releases and removes sub from the list, if present.
func (s *SubPipeHelper) Detach(sub upipeiface.Pipe) {
	for i, p := range s.subs {
		if p == sub {
			p.Release()
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// ReleaseAll releases every sub-pipe, for use when the super-pipe
// itself dies.
func (s *SubPipeHelper) ReleaseAll() {
	for _, p := range s.subs {
		p.Release()
	}
	s.subs = nil
}

// Subs returns the current sub-pipe list.
func (s *SubPipeHelper) Subs() []upipeiface.Pipe { return s.subs }

// SuperPipe is the weak back-pointer a sub-pipe holds to its owner,
// stored without a Use() to keep the super→sub / sub→super
// relationship acyclic.
type SuperPipe struct {
	super upipeiface.Pipe
}

// SetSuper installs the (unreferenced) super-pipe pointer.
func (s *SuperPipe) SetSuper(super upipeiface.Pipe) { s.super = super }

// Super returns the super-pipe, or nil if detached.
func (s *SuperPipe) Super() upipeiface.Pipe { return s.super }
