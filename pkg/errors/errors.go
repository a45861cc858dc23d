// Package errors gives coauthornet failures a machine-readable [Code].
//
// The same code decides how a failure surfaces everywhere: the HTTP status
// the session server answers with ([HTTPStatus]) and the exit status of the
// CLI ([ExitCode]). Messages stay human-readable; [UserMessage] drops the
// code prefix for display.
//
//	err := errors.Wrap(errors.ErrCodeMalformedGraph, buildErr, "load %s", path)
//	if errors.Is(err, errors.ErrCodeMalformedGraph) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// Rejected input.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidSource  Code = "INVALID_SOURCE"
	ErrCodeInvalidEvent   Code = "INVALID_EVENT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeMalformedGraph Code = "MALFORMED_GRAPH"

	// Missing resources.
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Remote sources.
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Exit statuses returned by [ExitCode].
const (
	ExitFailure  = 1
	ExitUsage    = 2 // the input was rejected
	ExitNotFound = 3
	ExitNetwork  = 4
)

type surface struct {
	status int
	exit   int
}

var surfaces = map[Code]surface{
	ErrCodeInvalidInput:    {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidFormat:   {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidPath:     {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidSource:   {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidEvent:    {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidConfig:   {http.StatusInternalServerError, ExitUsage},
	ErrCodeMalformedGraph:  {http.StatusBadRequest, ExitUsage},
	ErrCodeNotFound:        {http.StatusNotFound, ExitNotFound},
	ErrCodeNodeNotFound:    {http.StatusNotFound, ExitNotFound},
	ErrCodeFileNotFound:    {http.StatusNotFound, ExitNotFound},
	ErrCodeSessionNotFound: {http.StatusNotFound, ExitNotFound},
	ErrCodeNetwork:         {http.StatusBadGateway, ExitNetwork},
	ErrCodeTimeout:         {http.StatusGatewayTimeout, ExitNetwork},
	ErrCodeRateLimited:     {http.StatusTooManyRequests, ExitNetwork},
	ErrCodeUnsupported:     {http.StatusNotImplemented, ExitFailure},
}

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of an *Error without its code prefix, or
// err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the session server answers with.
// Uncoded errors are 500.
func HTTPStatus(err error) int {
	if s, ok := surfaces[GetCode(err)]; ok {
		return s.status
	}
	return http.StatusInternalServerError
}

// ExitCode maps err to a process exit status; nil is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if s, ok := surfaces[GetCode(err)]; ok {
		return s.exit
	}
	return ExitFailure
}
