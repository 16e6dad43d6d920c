package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the error type returned across the service boundary.
//
// code example: PRODUCT_NOT_FOUND
type Error struct {
	kind   Kind
	code   string
	msg    string
	parent error
}

// New builds an Error of the given kind.
func New(kind Kind, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

func (e *Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("code=%s, msg=%s, parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("code=%s, msg=%s", e.code, e.msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.parent }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Code returns the machine readable code.
func (e *Error) Code() string { return e.code }

// Msg returns the human readable message.
func (e *Error) Msg() string { return e.msg }

// Wrap returns a copy of e carrying parent as its cause.
func (e *Error) Wrap(parent error) *Error {
	cp := *e
	cp.parent = parent
	return &cp
}

// Is matches errors with the same kind and code so predefined errors can be
// compared with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.code == t.code
}

func Validation(code, msg string) *Error   { return New(KindValidation, code, msg) }
func NotFound(code, msg string) *Error     { return New(KindNotFound, code, msg) }
func Unauthorized(code, msg string) *Error { return New(KindUnauthorized, code, msg) }
func Conflict(code, msg string) *Error     { return New(KindConflict, code, msg) }

// Internal wraps an unexpected failure.
func Internal(parent error) *Error {
	return &Error{kind: KindInternal, code: "INTERNAL_ERROR", msg: "an unknown error occurred", parent: parent}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}
