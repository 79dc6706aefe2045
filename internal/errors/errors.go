package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// CodeNotFound covers "no symbol at point" and "no definitions found".
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeValidation covers malformed user input: empty candidate sets,
	// bad ace key configuration, session-only commands without a session.
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	// CodeConflict is raised when a saved-session name is already taken.
	CodeConflict ErrorCode = "CONFLICT"
	// CodeUnavailable marks a backing document that cannot be opened.
	CodeUnavailable ErrorCode = "UNAVAILABLE"
	// CodeInternal marks invariant violations that the depth/branch
	// gating should make unreachable.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath      = "path"
	CtxSymbol    = "symbol"
	CtxSession   = "session"
	CtxOperation = "operation"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
