// Package uref implements the data unit: a dictionary plus an
// optional payload buffer, a linked-list hook, and the clocked
// attributes (pts/dts/cr across the sys/prog/orig time domains) every
// pipe reads and stamps.
//
// The shorthand names registered in NewMgr below are a small fixed
// table of this domain's hot attributes, following the accessor-pair
// convention of deriving PTS/DTS from a stored delay.
package uref

import (
	"github.com/openheadend/upipe-go/internal/ubuf"
	"github.com/openheadend/upipe-go/internal/udict"
)

// Domain identifies one of the three coexisting clock domains a
// timestamp may be expressed in.
type Domain string

const (
	DomainSys  Domain = "sys"
	DomainProg Domain = "prog"
	DomainOrig Domain = "orig"
)

const (
	attrFlowDef      = "f.def"
	attrRandomAccess = "f.ra"
	attrDiscontinuity = "f.discontinuity"
	attrDuration      = "f.duration"
)

func attrPTS(d Domain) string { return "k.pts." + string(d) }
func attrDTS(d Domain) string { return "k.dts." + string(d) }
func attrCR(d Domain) string  { return "k.cr." + string(d) }
func attrDTSDelay(d Domain) string { return "k.dtsdelay." + string(d) }

// Mgr is the uref factory, parameterised over a udict manager's
// shorthand table.
type Mgr struct {
	shorthands *udict.Dict
}

// NewMgr creates a uref manager with the core's hot-path attributes
// pre-registered as shorthands: pts/dts/cr in the sys domain, flow.def,
// random-access, duration.
func NewMgr() *Mgr {
	d := udict.New()
	d.RegisterShorthand(1, udict.TypeString, attrFlowDef)
	d.RegisterShorthand(2, udict.TypeUnsigned, attrPTS(DomainSys))
	d.RegisterShorthand(3, udict.TypeUnsigned, attrDTS(DomainSys))
	d.RegisterShorthand(4, udict.TypeUnsigned, attrCR(DomainSys))
	d.RegisterShorthand(5, udict.TypeUnsigned, attrDuration)
	d.RegisterShorthand(6, udict.TypeBool, attrRandomAccess)
	d.RegisterShorthand(7, udict.TypeBool, attrDiscontinuity)
	return &Mgr{shorthands: d}
}

// Alloc creates an empty uref with no payload.
func (m *Mgr) Alloc() *Uref {
	return &Uref{mgr: m, dict: udict.New()}
}

// Uref is one data unit. It is not itself refcounted: ownership is
// single-threaded value semantics, and sharing a payload is expressed
// by Dup, which increments the ubuf's own refcount.
type Uref struct {
	mgr  *Mgr
	dict *udict.Dict
	buf  ubuf.Buffer

	// chain is the intrusive linked-list hook (uref_to_uchain): the next
	// uref in the queue holding this one, nil at a queue's tail or when
	// not enqueued; queued records membership.
	chain *Uref
	queued bool
}

// Dict exposes the backing attribute dictionary directly for pipes
// that need module-specific attributes beyond the accessors below.
func (u *Uref) Dict() *udict.Dict { return u.dict }

// Buf returns the attached payload buffer, or nil if this is a
// void-flow uref.
func (u *Uref) Buf() ubuf.Buffer { return u.buf }

// Attach replaces the uref's payload buffer, releasing any previous
// one.
func (u *Uref) Attach(b ubuf.Buffer) {
	if u.buf != nil {
		u.buf.Release()
	}
	u.buf = b
}

// Dup creates a sibling uref sharing this one's payload (ubuf refcount
// incremented) and a cloned dictionary; the sibling's chain hook starts
// detached, whatever queue this uref is in is not copied.
func (u *Uref) Dup() *Uref {
	nu := &Uref{mgr: u.mgr, dict: u.dict.Dup()}
	if u.buf != nil {
		nu.buf = u.buf.Dup()
	}
	return nu
}

// Release frees the payload buffer, if any. A uref carries no
// refcount of its own (see Uref doc comment); Release exists so
// callers have one clear place to drop the ubuf reference Dup/Attach
// accumulated.
func (u *Uref) Release() {
	if u.buf != nil {
		u.buf.Release()
		u.buf = nil
	}
}

// FlowDef returns the uref's flow-definition string and whether it is
// set.
func (u *Uref) FlowDef() (string, bool) {
	v, ok := u.dict.Get(udict.TypeString, attrFlowDef)
	if !ok {
		return "", false
	}
	return v.String, true
}

// SetFlowDef sets the flow-definition string.
func (u *Uref) SetFlowDef(def string) {
	u.dict.Set(udict.TypeString, attrFlowDef, udict.Value{String: def})
}

// RandomAccess reports the random-access flag (used by the
// gate/trim pattern, Testable Properties scenario 4).
func (u *Uref) RandomAccess() bool {
	v, _ := u.dict.Get(udict.TypeBool, attrRandomAccess)
	return v.Bool
}

// SetRandomAccess sets the random-access flag.
func (u *Uref) SetRandomAccess(v bool) {
	u.dict.Set(udict.TypeBool, attrRandomAccess, udict.Value{Bool: v})
}

// Discontinuity reports the discontinuity flag.
func (u *Uref) Discontinuity() bool {
	v, _ := u.dict.Get(udict.TypeBool, attrDiscontinuity)
	return v.Bool
}

// SetDiscontinuity sets the discontinuity flag.
func (u *Uref) SetDiscontinuity(v bool) {
	u.dict.Set(udict.TypeBool, attrDiscontinuity, udict.Value{Bool: v})
}

// Duration returns the uref's duration in 27 MHz ticks.
func (u *Uref) Duration() (uint64, bool) {
	v, ok := u.dict.Get(udict.TypeUnsigned, attrDuration)
	return v.Unsigned, ok
}

// SetDuration sets the uref's duration in 27 MHz ticks.
func (u *Uref) SetDuration(d uint64) {
	u.dict.Set(udict.TypeUnsigned, attrDuration, udict.Value{Unsigned: d})
}

// PTS returns the presentation timestamp in the given domain, computing
// it from a stored DTS and DTS-PTS delay if not directly set.
func (u *Uref) PTS(d Domain) (uint64, bool) {
	if v, ok := u.dict.Get(udict.TypeUnsigned, attrPTS(d)); ok {
		return v.Unsigned, true
	}
	dts, ok := u.dict.Get(udict.TypeUnsigned, attrDTS(d))
	if !ok {
		return 0, false
	}
	delay, ok := u.dict.Get(udict.TypeUnsigned, attrDTSDelay(d))
	if !ok {
		return 0, false
	}
	return dts.Unsigned + delay.Unsigned, true
}

// SetPTS sets the presentation timestamp in the given domain.
func (u *Uref) SetPTS(d Domain, ts uint64) {
	u.dict.Set(udict.TypeUnsigned, attrPTS(d), udict.Value{Unsigned: ts})
}

// DTS returns the decode timestamp in the given domain, computing it
// from a stored PTS and DTS-PTS delay if not directly set.
func (u *Uref) DTS(d Domain) (uint64, bool) {
	if v, ok := u.dict.Get(udict.TypeUnsigned, attrDTS(d)); ok {
		return v.Unsigned, true
	}
	pts, ok := u.PTS(d)
	if !ok {
		return 0, false
	}
	delay, ok := u.dict.Get(udict.TypeUnsigned, attrDTSDelay(d))
	if !ok {
		return 0, false
	}
	return pts - delay.Unsigned, true
}

// SetDTS sets the decode timestamp directly in the given domain.
func (u *Uref) SetDTS(d Domain, ts uint64) {
	u.dict.Set(udict.TypeUnsigned, attrDTS(d), udict.Value{Unsigned: ts})
}

// SetDTSDelay records the DTS-PTS delay used to derive DTS from PTS
// (or PTS from DTS) when only one of the pair is stamped directly.
func (u *Uref) SetDTSDelay(d Domain, delay uint64) {
	u.dict.Set(udict.TypeUnsigned, attrDTSDelay(d), udict.Value{Unsigned: delay})
}

// CR returns the composition reference timestamp in the given domain.
func (u *Uref) CR(d Domain) (uint64, bool) {
	v, ok := u.dict.Get(udict.TypeUnsigned, attrCR(d))
	return v.Unsigned, ok
}

// SetCR sets the composition reference timestamp in the given domain.
func (u *Uref) SetCR(d Domain, ts uint64) {
	u.dict.Set(udict.TypeUnsigned, attrCR(d), udict.Value{Unsigned: ts})
}

// Next and SetNext expose the intrusive linked-list hook: a uref
// belongs to at most one chain at a time, so SetNext on a uref already
// queued elsewhere is a programming error the caller must avoid. This
// type does not defensively check it; that invariant is pushed to the
// one FIFO/queue type that calls SetNext.
func (u *Uref) Next() *Uref { return u.chain }

func (u *Uref) SetNext(n *Uref) { u.chain = n }

// Queued reports whether some queue currently considers this uref
// enqueued, for the "a uref is enqueued in at most one place" debug
// invariant.
func (u *Uref) Queued() bool { return u.queued }

func (u *Uref) SetQueued(v bool) { u.queued = v }
