package esi

import (
	"errors"
	"fmt"

	"corpstats/internal/corpstats/ports"
)

// Category is the normalized failure taxonomy for ESI calls.
type Category string

const (
	// CategoryCredential means the token is expired, revoked or was never valid.
	CategoryCredential Category = "credential"

	// CategoryForbidden means the token lacks the scope or in-game role.
	CategoryForbidden Category = "forbidden"

	// CategoryNotFound means the entity does not exist upstream.
	CategoryNotFound Category = "not_found"

	// CategoryRateLimited means ESI's error limit or rate limit was hit.
	CategoryRateLimited Category = "rate_limited"

	// CategoryOutage means ESI answered with a server error or not at all.
	CategoryOutage Category = "outage"

	// CategoryBadData means the response could not be decoded.
	CategoryBadData Category = "bad_data"

	// CategoryCircuitOpen means the client refused the call because ESI has been failing.
	CategoryCircuitOpen Category = "circuit_open"
)

// Error wraps ESI failures with a normalized category.
type Error struct {
	Category   Category
	Endpoint   string
	Status     int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("esi %s [%s]", e.Endpoint, e.Category)
	if e.Status != 0 {
		msg += fmt.Sprintf(" status %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is maps categories onto the failure classes the reconciler understands.
func (e *Error) Is(target error) bool {
	switch target {
	case ports.ErrCredentialRevoked:
		return e.Category == CategoryCredential
	case ports.ErrForbidden:
		return e.Category == CategoryForbidden
	case ports.ErrNotFound:
		return e.Category == CategoryNotFound
	}
	return false
}

// Retryable reports whether the call may succeed if repeated later.
func (e *Error) Retryable() bool {
	return e.Category == CategoryRateLimited ||
		e.Category == CategoryOutage ||
		e.Category == CategoryCircuitOpen
}

// CategoryOf extracts the category from an error chain.
func CategoryOf(err error) (Category, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Category, true
	}
	return "", false
}
