// Package errs implements the two error shapes used throughout proctop:
// a ComplexError carrying a Code plus a captured stack frame for
// diagnostics, and plain wrapped errors everywhere else. It is adapted
// from lazydocker's pkg/commands/errors.go, retargeted from a
// container-command error code (MustStopContainer) to the process-action
// codes a Signaler reports.
package errs

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"golang.org/x/xerrors"
)

// Code classifies why a process action was refused or failed.
type Code int

const (
	// Unknown is the zero value: an error with no assigned code.
	Unknown Code = iota
	// PermissionDenied means the operating system refused the action for
	// this uid (not owner, not root).
	PermissionDenied
	// NoSuchProcess means the pid had already exited by the time the
	// action ran.
	NoSuchProcess
	// ActionRefused means the session itself disallows the action
	// (read-only mode), independent of OS permissions.
	ActionRefused
	// PlatformUnavailable means the Platform couldn't service the
	// request at all (unsupported on this OS).
	PlatformUnavailable
)

func (c Code) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case NoSuchProcess:
		return "no such process"
	case ActionRefused:
		return "action refused"
	case PlatformUnavailable:
		return "platform unavailable"
	default:
		return "unknown"
	}
}

// Wrap wraps err for the sake of a stack trace at the top level; go-errors
// does not return nil when wrapping a non-error, so that case is handled
// explicitly here.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 0)
}

// ComplexError is an error carrying a Code so calling code can branch on
// *why* without string-matching the message.
type ComplexError struct {
	Message string
	Code    Code
	frame   xerrors.Frame
}

// New builds a ComplexError with a captured stack frame.
func New(code Code, message string) ComplexError {
	return ComplexError{Message: message, Code: code, frame: xerrors.Caller(1)}
}

func (ce ComplexError) FormatError(p xerrors.Printer) error {
	p.Printf("%s: %s", ce.Code, ce.Message)
	ce.frame.Format(p)
	return nil
}

func (ce ComplexError) Format(f fmt.State, c rune) { xerrors.FormatError(ce, f, c) }

func (ce ComplexError) Error() string { return fmt.Sprintf("%s: %s", ce.Code, ce.Message) }

// HasCode reports whether err is a ComplexError (or wraps one) with code.
func HasCode(err error, code Code) bool {
	var ce ComplexError
	if xerrors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
