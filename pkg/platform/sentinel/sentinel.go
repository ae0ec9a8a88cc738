// Package sentinel holds storage-level facts that stores return (optionally
// wrapped) and services translate into domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no lockout record, no invite with that code.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness constraint rejected the write (invite code).
	ErrConflict = errors.New("conflict")
)
