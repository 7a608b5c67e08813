package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeParse        = "PARSE_FAILED"
	ErrCodeNetwork      = "FETCH_NETWORK"
	ErrCodeTimeout      = "FETCH_TIMEOUT"
	ErrCodeNotFound     = "FETCH_NOT_FOUND"
	ErrCodeRenderFailed = "RENDER_FAILED"
	ErrCodeNoTable      = "NO_TABLE_FOUND"
	ErrCodeEmpty        = "EMPTY_TABLE"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeCanceled     = "CANCELED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error attached to API responses and to
// failed RunnerResults.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type Error struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *Error) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// AsError coerces any error into a typed *Error, defaulting to
// ErrCodeInternal for errors produced outside this module.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return NewError(ErrCodeInternal, err.Error(), err)
}
