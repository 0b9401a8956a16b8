package apiclient

import (
	"errors"
	"fmt"
)

// AuthError means the server rejected the caller's credentials (401).
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string { return "auth error: " + e.Detail }

// ForbiddenError means the caller lacks the privilege for an admin-only
// endpoint (403). Client-side role gating is advisory; this is the real check.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Detail }

// ValidationError means the server rejected malformed or conflicting input
// (400, 409, 422).
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Detail }

// NetworkError means the request never produced a response.
type NetworkError struct {
	Detail string
	Err    error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// APIError covers any other non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}

// Message extracts the display text carried by any error produced by this
// package: the server-provided detail when there was one, otherwise the
// per-operation fallback the call was made with.
func Message(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Detail
	}
	var forbiddenErr *ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return forbiddenErr.Detail
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Detail
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Detail
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return "Request failed"
}

// Kind buckets an error into the taxonomy without the caller juggling
// errors.As for every type.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindForbidden
	KindValidation
	KindNetwork
)

func Classify(err error) Kind {
	var (
		authErr       *AuthError
		forbiddenErr  *ForbiddenError
		validationErr *ValidationError
		netErr        *NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &forbiddenErr):
		return KindForbidden
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindOther
	}
}
