// Package upipe is the public control/event/pipe ABI: error codes, the
// Event/Command/Request closed sets, the Probe and Pipe/Manager
// interfaces, flow-def helpers, and the manager-factory entry points
// re-exported from internal/*.
//
// Error is a structured type carrying an operation name, a module
// signature, a Code drawn from a closed set, and a wrapped Inner
// error, with Unwrap/Is for errors.As/errors.Is interop. The
// errno-to-code mapping exists because internal/upump makes real
// syscalls (epoll/eventfd/timerfd) whose failures need to surface as
// CodeExternal without the caller unwrapping a syscall.Errno by hand.
package upipe

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/openheadend/upipe-go/internal/uevent"
)

// Code re-exports the closed error-code enumeration.
type Code = uevent.Code

const (
	CodeOK         = uevent.CodeOK
	CodeUnhandled  = uevent.CodeUnhandled
	CodeInvalid    = uevent.CodeInvalid
	CodeAlloc      = uevent.CodeAlloc
	CodeExternal   = uevent.CodeExternal
	CodeBusy       = uevent.CodeBusy
	CodeUpumpError = uevent.CodeUpumpError
)

// Error is the structured error every control operation and manager
// factory returns.
type Error struct {
	Op    string          // operation that failed, e.g. "set-flow-def"
	Pipe  uevent.Signature // module signature, empty if not pipe-specific
	Code  Code
	Errno syscall.Errno
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Pipe != "" {
		return fmt.Sprintf("upipe: %s: %s (pipe=%s)", e.Op, msg, e.Pipe)
	}
	return fmt.Sprintf("upipe: %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError creates a structured error with no wrapped cause.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewPipeError creates a structured error attributed to a specific
// pipe module signature.
func NewPipeError(op string, sig uevent.Signature, code Code, msg string) *Error {
	return &Error{Op: op, Pipe: sig, Code: code, Msg: msg}
}

// WrapError wraps inner with op context, mapping a bare syscall.Errno
// to CodeExternal so external/OS failures surface through the same
// closed code set as everything else.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ue, ok := inner.(*Error); ok {
		return &Error{Op: op, Pipe: ue.Pipe, Code: ue.Code, Errno: ue.Errno, Msg: ue.Msg, Inner: ue.Inner}
	}
	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, Code: CodeExternal, Errno: errno, Msg: errno.Error(), Inner: inner}
	}
	return &Error{Op: op, Code: CodeExternal, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is (or wraps) an *Error with the given
// code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
