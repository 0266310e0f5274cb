package checkpoint

import "errors"

var (
	// ErrCorruptCheckpoint is returned when a stored payload cannot be
	// decoded by any known format. Never swallowed.
	ErrCorruptCheckpoint = errors.New("checkpoint: corrupt checkpoint payload")

	// ErrNotSupported is returned for filter predicates beyond thread id.
	// Filtering is intentionally unimplemented to keep the store simple.
	ErrNotSupported = errors.New("checkpoint: filtering is not supported")
)
