package upipe

import (
	"github.com/openheadend/upipe-go/internal/uclock"
	"github.com/openheadend/upipe-go/internal/ubuf"
	"github.com/openheadend/upipe-go/internal/udict"
	"github.com/openheadend/upipe-go/internal/umem"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// Core data types, re-exported so a caller outside this module never
// needs to import internal/* directly.
type (
	Uref      = uref.Uref
	UrefMgr   = uref.Mgr
	Dict      = udict.Dict
	Domain    = uref.Domain
	Buffer    = ubuf.Buffer
	Clock     = uclock.Clock
	PumpMgr   = upump.Mgr
	Pump      = upump.Pump
	Mem       = umem.Mem
)

const (
	DomainSys  = uref.DomainSys
	DomainProg = uref.DomainProg
	DomainOrig = uref.DomainOrig
)
