// Package apperr classifies request failures so handlers can map them to HTTP statuses
// without inspecting upstream error strings.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies the class of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindUpstreamUnavailable
	KindAssistantUnavailable
	KindConfiguration
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindAssistantUnavailable:
		return "assistant_unavailable"
	case KindConfiguration:
		return "configuration_error"
	case KindNotFound:
		return "not_found"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status reported for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is the cause and
// is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput reports a request that failed validation.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// UpstreamUnavailable reports a failed delegated call.
func UpstreamUnavailable(message string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: message, Err: err}
}

// AssistantUnavailable reports a failed question-answering flow.
func AssistantUnavailable(message string, err error) *Error {
	return &Error{Kind: KindAssistantUnavailable, Message: message, Err: err}
}

// Configuration reports a missing or placeholder resource identifier.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NotFound reports a destination resource that does not exist.
func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-facing message of err, or fallback when err is unclassified.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
