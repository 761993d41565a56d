package apiclient

import (
	"errors"
	"strings"
)

// Outcomes of an API call other than success
var (
	// ErrNotFound is returned for a 404 from the API
	ErrNotFound = errors.New("apiclient: not found")
	// ErrUnauthorized is returned for a 401; the session is missing or expired
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrUpstreamUnavailable wraps transport failures, timeouts, an open
	// breaker and any status the pages cannot act on
	ErrUpstreamUnavailable = errors.New("apiclient: upstream unavailable")
)

// FieldError is one rejected field of a 400 response
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned for a 400 from the API
type ValidationError struct {
	Code    string
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "apiclient: " + e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "apiclient: " + e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// ByField indexes the field messages by field name, keeping the first message
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// upstreamError carries the cause of an ErrUpstreamUnavailable for logging
type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string {
	return "apiclient: " + e.op + ": " + e.err.Error()
}

func (e *upstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.err}
}
