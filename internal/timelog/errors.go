package timelog

import "errors"

var (
	// ErrInvalidRange rejects manual entries and edits where the end
	// instant is not strictly after the start instant.
	ErrInvalidRange = errors.New("end time must be after start time")

	// ErrNotFound is returned when an operation names a log ID that
	// does not exist in the ledger.
	ErrNotFound = errors.New("time log not found")
)
