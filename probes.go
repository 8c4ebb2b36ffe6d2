package upipe

import (
	"github.com/openheadend/upipe-go/internal/logging"
	"github.com/openheadend/upipe-go/internal/uprobe"
)

// Logger re-exports the stdio probe's logging backend.
type Logger = logging.Logger

// NewStdioProbe creates a probe that logs every thrown event via
// logger (or the process-wide default logger, if nil), masking
// clock-ref/clock-ts by default.
func NewStdioProbe(logger *Logger) *uprobe.Stdio { return uprobe.NewStdio(logger) }

// NewPrefixProbe creates a probe that tags each event's args with
// ("prefix", name) and delegates to next; the stdio probe does not
// print the tag.
func NewPrefixProbe(name string, next Probe) *uprobe.Prefix {
	return uprobe.NewPrefix(name, next)
}

// NewUrefMgrProvider, NewUbufMgrProvider, NewUclockProvider and
// NewUpumpMgrProvider answer the corresponding need-* event with a
// cached resource, falling through to next for any other event.
func NewUrefMgrProvider(mgr any, next Probe) *uprobe.Provider {
	return uprobe.NewUrefMgrProvider(mgr, next)
}

func NewUbufMgrProvider(mgr any, next Probe) *uprobe.Provider {
	return uprobe.NewUbufMgrProvider(mgr, next)
}

func NewUclockProvider(clock any, next Probe) *uprobe.Provider {
	return uprobe.NewUclockProvider(clock, next)
}

func NewUpumpMgrProvider(mgr any, next Probe) *uprobe.Provider {
	return uprobe.NewUpumpMgrProvider(mgr, next)
}

// NewSelectFlowProbe creates a probe that suppresses flow-def-changed
// events whose flow-def string does not start with prefix.
func NewSelectFlowProbe(prefix string, next Probe) *uprobe.SelectFlow {
	return uprobe.NewSelectFlow(prefix, next)
}

// NewPthreadAssertProbe creates a probe that panics if an event
// arrives while owner() reports false.
func NewPthreadAssertProbe(owner func() bool, next Probe) *uprobe.PthreadAssert {
	return uprobe.NewPthreadAssert(owner, next)
}

// NewCounterProbe creates a probe that tallies how many times each
// core event fires, for metrics/testing.
func NewCounterProbe(next Probe) *uprobe.Counter { return uprobe.NewCounter(next) }
