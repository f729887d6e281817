package errs

import (
	"errors"
	"net/http"

	cr "github.com/cockroachdb/errors"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindBusinessRule Kind = "business_rule"
	KindFatal        Kind = "fatal"
)

// HTTPStatus maps an error kind to its response status class.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error surfaced by use cases. Message is safe to show to
// clients; the cause keeps the internal chain and stack.
type Error struct {
	Kind    Kind
	Message string
	Detail  any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) WithDetail(detail any) *Error {
	e.Detail = detail
	return e
}

func E(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		cause = cr.NewWithDepth(1, msg)
	} else {
		cause = cr.WithStackDepth(cause, 1)
	}
	return &Error{Kind: kind, Message: msg, cause: cause}
}

func Validation(cause error, msg string) *Error   { return E(KindValidation, cause, msg) }
func NotFound(cause error, msg string) *Error     { return E(KindNotFound, cause, msg) }
func Forbidden(cause error, msg string) *Error    { return E(KindForbidden, cause, msg) }
func Conflict(cause error, msg string) *Error     { return E(KindConflict, cause, msg) }
func BusinessRule(cause error, msg string) *Error { return E(KindBusinessRule, cause, msg) }
func Fatal(cause error, msg string) *Error        { return E(KindFatal, cause, msg) }

type kinded interface {
	AppKind() Kind
}

// KindOf resolves the kind of err through its wrap chain. Errors that carry
// no kind are fatal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var k kinded
	if errors.As(err, &k) {
		return k.AppKind()
	}
	return KindFatal
}

// AsError returns the typed error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
