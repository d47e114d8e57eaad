package interp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies builtin failures. The script boundary sees only the
// rendered message; the kind exists for exhaustive handling inside the
// runtime and in tests.
type ErrorKind int

const (
	ArityError ErrorKind = iota
	TypeError
	InvalidHandle
	IOError
	DomainError
	ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case ArityError:
		return "arity error"
	case TypeError:
		return "type error"
	case InvalidHandle:
		return "invalid handle"
	case IOError:
		return "io error"
	case DomainError:
		return "domain error"
	case ParseError:
		return "parse error"
	}
	return "error"
}

// Error is the single error type returned by builtins.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf reports the ErrorKind of err, or IOError for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IOError
}

func arityErrorf(format string, a ...interface{}) *Error {
	return &Error{Kind: ArityError, Message: fmt.Sprintf(format, a...)}
}

func typeErrorf(format string, a ...interface{}) *Error {
	return &Error{Kind: TypeError, Message: fmt.Sprintf(format, a...)}
}

func invalidHandlef(kind string, id int64) *Error {
	return &Error{Kind: InvalidHandle, Message: fmt.Sprintf("invalid %s ID: %d", kind, id)}
}

func ioErrorf(format string, a ...interface{}) *Error {
	return &Error{Kind: IOError, Message: fmt.Sprintf(format, a...)}
}

func domainErrorf(format string, a ...interface{}) *Error {
	return &Error{Kind: DomainError, Message: fmt.Sprintf(format, a...)}
}

func parseErrorf(format string, a ...interface{}) *Error {
	return &Error{Kind: ParseError, Message: fmt.Sprintf(format, a...)}
}
