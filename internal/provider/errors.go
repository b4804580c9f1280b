// Package provider defines how external collaborators report failure.
//
// Weather, search and model clients never hand sentinel strings to the router.
// They return *Error, which carries a machine-readable Reason and the text a
// user should see in place of an answer.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Reason classifies why a provider call failed
type Reason string

const (
	ReasonNetwork       Reason = "network"        // Connection failure or unexpected HTTP status
	ReasonTimeout       Reason = "timeout"        // Per-call deadline exceeded
	ReasonBadCredential Reason = "bad-credential" // Missing or rejected API key
	ReasonNotFound      Reason = "not-found"      // Provider answered but had nothing for the input
	ReasonMalformed     Reason = "malformed"      // Payload could not be decoded or lacked expected fields
)

// Error is a typed provider failure
type Error struct {
	Provider string // e.g. "openweathermap", "serpapi", "ollama"
	Op       string // e.g. "current", "forecast", "search", "generate"
	Reason   Reason
	Message  string // User-facing text, e.g. "Sorry, couldn't find weather for Paris."
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fail builds an *Error
func Fail(providerName, op string, reason Reason, message string, err error) *Error {
	return &Error{
		Provider: providerName,
		Op:       op,
		Reason:   reason,
		Message:  message,
		Err:      err,
	}
}

// StatusError reports a non-success HTTP status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Classify maps a transport or status error onto a Reason
func Classify(err error) Reason {
	if err == nil {
		return ""
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr.Reason
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return ReasonForStatus(statusErr.StatusCode)
	}

	if errors.Is(err, ErrDecode) {
		return ReasonMalformed
	}

	return ReasonNetwork
}

// ReasonForStatus maps an HTTP status code onto a Reason
func ReasonForStatus(code int) Reason {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ReasonBadCredential
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ReasonTimeout
	default:
		return ReasonNetwork
	}
}

// Wrap classifies err and wraps it as an *Error. An err that already is an
// *Error is returned unchanged.
func Wrap(providerName, op, message string, err error) *Error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return Fail(providerName, op, Classify(err), message, err)
}

// UserMessage returns the text to show a user for err. It falls back to
// fallback when err carries no user-facing message.
func UserMessage(err error, fallback string) string {
	var perr *Error
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return fallback
}

// IsFailure reports whether err is a typed provider failure
func IsFailure(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}
