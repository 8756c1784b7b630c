package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes exposed to clients
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource conflict")
	ErrInternal     = errors.New("internal server error")
)

// ApiErr is the typed error every layer returns when it wants a specific HTTP answer.
// Cause is kept for logging and is never serialized.
type ApiErr struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Cause      error
	sentinel   error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// errors.Is(err, ErrNotFound) evaluates to true for any ApiErr built by NewNotFound
func (e *ApiErr) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

func (e *ApiErr) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy of the error carrying client-visible details.
func (e *ApiErr) WithDetails(details any) *ApiErr {
	clone := *e
	clone.Details = details
	return &clone
}

func NewApiErr(statusCode int, code, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, Code: code, Message: message}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Code: CodeBadRequest, Message: message, sentinel: ErrBadRequest}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message, sentinel: ErrUnauthorized}
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message, sentinel: ErrNotFound}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, Code: CodeConflict, Message: message, sentinel: ErrConflict}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, Code: CodeInternalError, Message: message, sentinel: ErrInternal}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := NewInternalError(message)
	e.Cause = cause
	return e
}

// NewNotFound builds the standard "<entity> not found" error.
func NewNotFound(entity string) *ApiErr {
	return NewNotFoundError(entity + " not found")
}

// NewInvalidFieldError names the offending field and the violated constraint.
func NewInvalidFieldError(field, reason string) *ApiErr {
	return NewBadRequestError(fmt.Sprintf("%s %s", field, reason)).WithDetails(map[string]string{"field": field})
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
