package access

import "errors"

var (
	// ErrAccessDenied is returned when the guard rejects a request.
	ErrAccessDenied = errors.New("access: denied")
)
