// Package apperr defines the error kinds reported by chromexport. Producers
// wrap one of the sentinels with context, callers match with errors.Is.
package apperr

import "errors"

var (
	// ErrConfiguration reports an invalid combination of options.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound reports missing history databases or profiles.
	ErrNotFound = errors.New("not found")
	// ErrDatabase reports an unreadable or malformed history database.
	ErrDatabase = errors.New("database error")
	// ErrIO reports export directories or files that cannot be written.
	ErrIO = errors.New("io error")
)
