// Package transfer implements the cross-thread pipe proxy machinery: a
// transfer manager on loop A exposes a pipe manager whose Alloc
// synchronously returns a local Proxy pipe; the proxy marshals
// Input/Control calls into Envelopes pushed onto a bounded upump.Queue
// read by a pump on loop B, where a matching Inner dequeues them and
// drives the real pipe. Answers travel back through the symmetric
// queue exposed by loop A's own Mgr.
//
// An object is either immutable or owned by exactly one loop at a
// time; cross-loop handoff always goes through a queue, which
// transfers ownership along with it.
package transfer

import (
	"github.com/openheadend/upipe-go/internal/uevent"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Kind distinguishes what an Envelope carries across the A→B queue.
type Kind int

const (
	KindAlloc Kind = iota
	KindInput
	KindControl
	KindRelease
)

// Envelope is the variant command object crossing the A→B queue: a
// typed sum of what the transfer wire format needs to carry, rather
// than a (tag, opaque-args) pair.
type Envelope struct {
	Kind  Kind
	Proxy *Proxy
	Uref  *uref.Uref
	Cmd   uevent.Command
	Args  []any
}

// AnswerKind distinguishes what an Answer carries across the B→A queue.
type AnswerKind int

const (
	AnswerEvent AnswerKind = iota
	AnswerControlResult
	AnswerDrained
)

// Answer is the reply-direction variant object.
type Answer struct {
	Kind      AnswerKind
	Proxy     *Proxy
	Event     uevent.Event
	Sig       uevent.Signature
	EventArgs []any
	Code      uevent.Code
	Err       error
}

// Link binds two loops' pump managers for transfer: Out carries A→B
// envelopes (loop B's own built-in queue, drained there), In carries
// B→A answers (loop A's own built-in queue, drained there) — reusing
// each Mgr's one built-in cross-thread queue symmetrically rather than
// inventing a second queue type.
type Link struct {
	Out *upump.Queue
	In  *upump.Queue
}

// NewLink wires an A:B transfer using each loop's built-in Xfer queue.
// The caller must Start() each queue's Pump() on its owning loop before
// any envelope can be drained.
func NewLink(loopA, loopB *upump.Mgr) *Link {
	return &Link{Out: loopB.Xfer(), In: loopA.Xfer()}
}
