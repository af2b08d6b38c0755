package notification

import "errors"

var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidInput is returned when a caller-supplied payload fails validation.
	ErrInvalidInput = errors.New("invalid notification input")
)
