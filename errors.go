package coroutine

import "fmt"

// ErrorKind classifies the errors the runtime surfaces to callers, per the
// error taxonomy of the design: InvalidArgument, InvalidState,
// UnknownGenerator, SchemaMismatch, ProtocolError, UserError and
// DuplicateDescriptor (registry-specific).
type ErrorKind int

const (
	InvalidArgument ErrorKind = iota
	InvalidState
	UnknownGenerator
	SchemaMismatch
	ProtocolError
	UserError
	DuplicateDescriptor
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidState:
		return "InvalidState"
	case UnknownGenerator:
		return "UnknownGenerator"
	case SchemaMismatch:
		return "SchemaMismatch"
	case ProtocolError:
		return "ProtocolError"
	case UserError:
		return "UserError"
	case DuplicateDescriptor:
		return "DuplicateDescriptor"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type raised at every API boundary the design
// names. Callers can match on Kind, or use errors.Is/errors.As against the
// sentinel Err* values and the wrapped cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error // wrapped cause, e.g. the error returned by a generator body
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel for the same Kind, so that
// errors.Is(err, coroutine.ErrUnknownGenerator) works without callers
// needing to unpack *Error themselves.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	return ok && sentinel.Err == nil && sentinel.Msg == "" && sentinel.Kind == e.Kind
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Sentinel values usable with errors.Is. They carry no message or cause and
// only ever serve as comparison targets.
var (
	ErrInvalidArgument     = &Error{Kind: InvalidArgument}
	ErrInvalidState        = &Error{Kind: InvalidState}
	ErrUnknownGenerator    = &Error{Kind: UnknownGenerator}
	ErrSchemaMismatch      = &Error{Kind: SchemaMismatch}
	ErrProtocolError       = &Error{Kind: ProtocolError}
	ErrUserError           = &Error{Kind: UserError}
	ErrDuplicateDescriptor = &Error{Kind: DuplicateDescriptor}
)
