package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Binding failures wrap one of these sentinels so callers can tell
// which request surface was malformed.
var (
	ErrBindPath   = errors.New("bind path")
	ErrBindQuery  = errors.New("bind query")
	ErrBindHeader = errors.New("bind header")
	ErrBindCookie = errors.New("bind cookie")
	ErrBindBody   = errors.New("bind body")
	ErrBindForm   = errors.New("bind form")
)

// StatusCoder is implemented by errors and responses that decide their
// own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is the RFC 9457 problem-details body used for every
// error response. Validation failures attach per-field Errors.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error prefers the detail message and falls back to the title.
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the problem's HTTP status.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError reports one field that failed a constraint check.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// HTTPError pairs a status code with a message. Handlers return it
// (via Error or Errorf) to control the response status.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the status.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error builds an *HTTPError with the given status and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf builds an *HTTPError with a formatted message.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus unwraps err looking for a StatusCoder and returns its
// status, or 500 when none is found.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
