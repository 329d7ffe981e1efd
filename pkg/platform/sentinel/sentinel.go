// Package sentinel holds the storage and infrastructure errors that services
// translate into domain errors. Stores may wrap them; match with errors.Is.
package sentinel

import "errors"

var (
	// ErrNotFound: no snapshot, token, user or character with that id.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the write would break a uniqueness constraint, such as a
	// second snapshot for one corporation.
	ErrConflict = errors.New("conflict")
	// ErrLocked: another worker holds the corporation's sync lease.
	ErrLocked = errors.New("locked")
)
