package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers of the bracket and ingestion services.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindMalformedPayload
	KindTransientUpstream
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindMalformedPayload:
		return "MALFORMED_PAYLOAD"
	case KindTransientUpstream:
		return "TRANSIENT_UPSTREAM"
	case KindValidation:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(message string, err error) *Error {
	return &Error{Kind: KindForbidden, Message: message, Err: err}
}

func MalformedPayload(message string, err error) *Error {
	return &Error{Kind: KindMalformedPayload, Message: message, Err: err}
}

func TransientUpstream(message string, err error) *Error {
	return &Error{Kind: KindTransientUpstream, Message: message, Err: err}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Anything
// unclassified is Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
