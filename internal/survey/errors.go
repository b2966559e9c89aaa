package survey

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	ErrInternal = errors.New("internal error")
)

// Error is a categorized failure. Detail is safe to return to callers,
// except for ErrInternal whose cause stays server side.
type Error struct {
	Kind   error
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil && e.Kind == ErrInternal {
		return e.Detail + ": " + e.cause.Error()
	}
	return e.Detail
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(detail string) error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

func Conflict(detail string) error {
	return &Error{Kind: ErrConflict, Detail: detail}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure with a generic message.
func Internal(detail string, cause error) error {
	return &Error{Kind: ErrInternal, Detail: detail, cause: cause}
}

// Detail returns the caller-facing message of err.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return err.Error()
}
