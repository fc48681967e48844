package stringhash

import "errors"

var (
	// ErrInvalidBucketCount is returned by New and NewConcurrent when the
	// requested bucket count is not positive.
	ErrInvalidBucketCount = errors.New("stringhash: bucket count must be positive")

	// ErrDestroyed is the panic value raised when a destroyed table is used.
	ErrDestroyed = errors.New("stringhash: use of destroyed table")
)
