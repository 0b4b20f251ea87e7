// Package postgres holds the sentinel errors shared by the repositories.
package postgres

import "github.com/pkg/errors"

var (
	// ErrNotFound is used when a specific entity is requested but does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed is used when a scan arrives for an attendance record
	// that already has a check-out. The caller may treat it as a duplicate.
	ErrAlreadyClosed = errors.New("attendance record already closed")

	// ErrAlreadyMarked is used when a bulk absence mark finds an existing
	// record for the student-day that is not an absence.
	ErrAlreadyMarked = errors.New("attendance record already exists for this day")
)
