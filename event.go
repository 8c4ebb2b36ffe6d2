package upipe

import "github.com/openheadend/upipe-go/internal/uevent"

// Event, Command, RequestType and Signature are re-exported from
// internal/uevent (see DESIGN.md "Architectural deviations" for why
// the closed enumerations live in that leaf package rather than here
// directly): every core event a pipe throws, every standard control
// command, and every request a pipe can ask its chain to answer.
type (
	Event       = uevent.Event
	Command     = uevent.Command
	RequestType = uevent.RequestType
	Signature   = uevent.Signature
)

const (
	EventReady          = uevent.EventReady
	EventDead           = uevent.EventDead
	EventFlowDefChanged = uevent.EventFlowDefChanged
	EventProvideRequest = uevent.EventProvideRequest
	EventSourceEnd      = uevent.EventSourceEnd
	EventSinkEnd        = uevent.EventSinkEnd
	EventNeedUpumpMgr   = uevent.EventNeedUpumpMgr
	EventNeedUrefMgr    = uevent.EventNeedUrefMgr
	EventNeedUbufMgr    = uevent.EventNeedUbufMgr
	EventNeedUclock     = uevent.EventNeedUclock
	EventClockRef       = uevent.EventClockRef
	EventClockTs        = uevent.EventClockTs
	EventSyncAcquired   = uevent.EventSyncAcquired
	EventSyncLost       = uevent.EventSyncLost
	EventError          = uevent.EventError
	EventLocal          = uevent.EventLocal
)

const (
	CommandAttachUpumpMgr    = uevent.CommandAttachUpumpMgr
	CommandAttachUclock      = uevent.CommandAttachUclock
	CommandSetFlowDef        = uevent.CommandSetFlowDef
	CommandGetFlowDef        = uevent.CommandGetFlowDef
	CommandSetOutput         = uevent.CommandSetOutput
	CommandGetOutput         = uevent.CommandGetOutput
	CommandRegisterRequest   = uevent.CommandRegisterRequest
	CommandUnregisterRequest = uevent.CommandUnregisterRequest
	CommandSetOption         = uevent.CommandSetOption
	CommandSetMaxLength      = uevent.CommandSetMaxLength
	CommandGetMaxLength      = uevent.CommandGetMaxLength
	CommandSetOutputSize     = uevent.CommandSetOutputSize
	CommandGetOutputSize     = uevent.CommandGetOutputSize
	CommandLocal             = uevent.CommandLocal
)

const (
	RequestUrefMgr     = uevent.RequestUrefMgr
	RequestUbufMgr     = uevent.RequestUbufMgr
	RequestUclock      = uevent.RequestUclock
	RequestUpumpMgr    = uevent.RequestUpumpMgr
	RequestFlowFormat  = uevent.RequestFlowFormat
	RequestSinkLatency = uevent.RequestSinkLatency
)
