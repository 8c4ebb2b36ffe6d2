package helpers

import (
	"github.com/openheadend/upipe-go/internal/uclock"
	"github.com/openheadend/upipe-go/internal/upump"
	"github.com/openheadend/upipe-go/internal/uref"
)

// UbufMgrHelper tracks a ubuf manager acquired via a RequestUbufMgr
// request. The manager is untyped since ubuf's three variants
// (BlockMgr/PicMgr/SoundMgr) expose different Alloc signatures; a pipe
// type-asserts to the concrete manager it needs after Get.
type UbufMgrHelper struct {
	managerHelper[any]
}

// UpumpMgrHelper tracks the upump.Mgr a pipe uses to arm pumps.
type UpumpMgrHelper struct {
	managerHelper[*upump.Mgr]
}

// UclockHelper tracks the uclock.Clock a pipe stamps urefs against.
type UclockHelper struct {
	managerHelper[uclock.Clock]
}

// UrefMgrHelper tracks the uref.Mgr a pipe allocates urefs from.
type UrefMgrHelper struct {
	managerHelper[*uref.Mgr]
}
