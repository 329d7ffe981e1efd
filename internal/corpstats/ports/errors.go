package ports

import "errors"

// Failure classes a RosterSource or NameResolver reports. Adapters wrap their
// own errors so that errors.Is matches one of these.
var (
	// ErrCredentialRevoked means the token is expired, revoked or otherwise unusable.
	ErrCredentialRevoked = errors.New("credential revoked")
	// ErrForbidden means the token lacks the scope or in-game role for the request.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the requested entity does not exist upstream.
	ErrNotFound = errors.New("upstream entity not found")
)
