package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure for callers that branch on error class
// rather than raw status codes.
type Kind string

const (
	// KindValidation covers 400/422 responses (bad request payload).
	KindValidation Kind = "validation"
	// KindAuthentication is a 401 on an unauthenticated call, i.e. rejected
	// credentials on login. Terminal for the attempt.
	KindAuthentication Kind = "authentication"
	// KindAuthorization is a 401/403 on an authenticated call. A 401 here is
	// what triggers the one-shot token refresh.
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	// KindNetwork is a transport-level failure with no HTTP response.
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
)

// APIError is the uniform error shape every non-2xx response and transport
// failure is normalized into. Status is 0 for network errors.
type APIError struct {
	Status  int
	Kind    Kind
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: err.Error()}
}

// newAPIError classifies a non-2xx response. authed distinguishes a 401 on
// login (rejected credentials) from a 401 on an authenticated request
// (expired or revoked token).
func newAPIError(status int, body []byte, authed bool) *APIError {
	e := &APIError{
		Status:  status,
		Message: errorMessage(status, body),
		Body:    string(body),
	}

	switch {
	case status == http.StatusUnauthorized && !authed:
		e.Kind = KindAuthentication
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuthorization
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindValidation
	}
	return e
}

// errorMessage digs the human-readable message out of the common backend
// error envelopes ({"detail"}, {"error"}, {"message"}).
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Detail  string `json:"detail"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Detail != "":
			return envelope.Detail
		case envelope.Err != "":
			return envelope.Err
		case envelope.Message != "":
			return envelope.Message
		}
	}
	return http.StatusText(status)
}

func apiError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := apiError(err)
	return ok && e.Kind == kind
}

func IsNotFound(err error) bool      { return IsKind(err, KindNotFound) }
func IsNetwork(err error) bool       { return IsKind(err, KindNetwork) }
func IsAuthorization(err error) bool { return IsKind(err, KindAuthorization) }

// retriable reports whether the next fallback endpoint should be attempted:
// only a missing route or an unreachable host qualifies. Anything else,
// including validation failures, is surfaced immediately.
func retriable(err error) bool {
	return IsNotFound(err) || IsNetwork(err)
}
