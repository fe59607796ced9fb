package transport

import (
	"fmt"
	"net/http"
)

// Class categorizes a failed call for observability and handling.
type Class string

const (
	// ClassClient represents 4xx client errors.
	ClassClient Class = "client"

	// ClassServer represents 5xx server errors.
	ClassServer Class = "server"

	// ClassRateLimit represents 429 quota-exceeded responses.
	ClassRateLimit Class = "rate_limit"

	// ClassNetwork represents network/timeout errors.
	ClassNetwork Class = "network"
)

// Classify maps an HTTP status code to its error class. Returns "" for
// non-error statuses.
func Classify(statusCode int) Class {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ClassClient
	case statusCode >= 500:
		return ClassServer
	default:
		return ""
	}
}

// Error is a ballchasing API error with its classification.
type Error struct {
	StatusCode int
	Class      Class
	Message    string
	Err        error
}

// NewStatusError builds an Error from a non-2xx outcome. The message carries
// a bounded prefix of the response body, which is where ballchasing puts its
// error description.
func NewStatusError(outcome *Outcome) *Error {
	const maxBody = 200

	msg := string(outcome.Payload)
	if len(msg) > maxBody {
		msg = msg[:maxBody]
	}

	return &Error{
		StatusCode: outcome.StatusCode,
		Class:      Classify(outcome.StatusCode),
		Message:    msg,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ballchasing %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("ballchasing %s error (status %d): %s", e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
