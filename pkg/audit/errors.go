package audit

import "errors"

var (
	// ErrEntryValidation is returned when an audit entry is missing required fields.
	ErrEntryValidation = errors.New("audit: entry validation failed")
)
