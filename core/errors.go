package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return strings.Join(msgs, "; ")
}

// APIError is returned by a Backend whenever a call does not produce a usable JSON answer:
// network failure (StatusCode 0), non-2xx status, malformed JSON or an error envelope.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (err *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", err.Method, err.Path)
	if err.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", err.StatusCode)
	}
	if err.Err != nil {
		fmt.Fprintf(&b, ": %v", err.Err)
	}
	return b.String()
}

func (err *APIError) Unwrap() error { return err.Err }

// AsAPIError walks the error chain looking for an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
