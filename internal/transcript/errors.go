package transcript

import "errors"

var (
	// ErrRowOutOfRange is returned when a row index does not address a row
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrUnknownColumn is returned when an edit names a column the table does not have
	ErrUnknownColumn = errors.New("unknown column")

	// ErrMissingField is returned when a manual entry leaves a field empty
	ErrMissingField = errors.New("missing required field")

	// ErrRowNotFound is returned when a row ID is not in the table
	ErrRowNotFound = errors.New("row not found")
)
