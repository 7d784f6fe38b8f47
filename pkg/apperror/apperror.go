// Package apperror defines the error kinds that services are allowed to return
// across the component boundary. The HTTP layer maps each Kind to exactly one
// status code.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindService Kind = iota
	KindNotFound
	KindAlreadyExists
	KindInvalidCredentials
	KindIllegalAction
	KindValidation
	KindTokenExpired
	KindTokenInvalid
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindService:            "SERVICE_ERROR",
	KindNotFound:           "NOT_FOUND",
	KindAlreadyExists:      "ALREADY_EXISTS",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindIllegalAction:      "ILLEGAL_ACTION",
	KindValidation:         "VALIDATION_ERROR",
	KindTokenExpired:       "TOKEN_EXPIRED",
	KindTokenInvalid:       "TOKEN_INVALID",
	KindRateLimited:        "RATE_LIMITED",
}

// Kinds returns every declared kind, in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindService,
		KindNotFound,
		KindAlreadyExists,
		KindInvalidCredentials,
		KindIllegalAction,
		KindValidation,
		KindTokenExpired,
		KindTokenInvalid,
		KindRateLimited,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Error is the only error type services return to callers.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string // per-field messages, Validation only
	Err     error    // underlying cause, never rendered to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, apperror.NotFound(""))
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func AlreadyExists(message string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: message}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials. The email or password is incorrect."}
}

func IllegalAction(message string) *Error {
	return &Error{Kind: KindIllegalAction, Message: message}
}

func Validation(message string, fields []string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func TokenExpired() *Error {
	return &Error{Kind: KindTokenExpired, Message: "The JWT token has expired."}
}

func TokenInvalid(message string) *Error {
	if message == "" {
		message = "Invalid JWT token."
	}
	return &Error{Kind: KindTokenInvalid, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// Service wraps an unexpected infrastructure failure.
func Service(message string, err error) *Error {
	return &Error{Kind: KindService, Message: message, Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err, treating foreign errors as KindService.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindService
}
