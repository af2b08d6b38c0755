package notification

import (
	"context"
	"time"
)

// Repository handles notification persistence and retrieval. Implementations
// return ordinary (value, error) pairs; the service layer propagates
// repository errors verbatim since a failed write is fatal to the operation.
type Repository interface {
	// CreateNotification stores a new notification and returns the stored record.
	CreateNotification(ctx context.Context, n Notification) (Notification, error)

	// GetNotification retrieves a single notification scoped to an organization.
	GetNotification(ctx context.Context, orgID, notifID string) (Notification, error)

	// MarkRead marks one notification as read at the given time and returns
	// the updated record. Marking an already-read record is a no-op.
	MarkRead(ctx context.Context, orgID, notifID string, readAt time.Time) (Notification, error)

	// MarkAllRead marks every unread notification for the user as read,
	// optionally restricted to records created or last touched at or before
	// the cutoff. Returns the number of rows updated.
	MarkAllRead(ctx context.Context, orgID, userID string, before *time.Time, readAt time.Time) (int64, error)

	// ListNotifications returns notifications for a user, newest first.
	ListNotifications(ctx context.Context, orgID, userID string, opts ListOptions) ([]Notification, error)

	// DeleteNotification removes a notification by id.
	DeleteNotification(ctx context.Context, orgID, notifID string) error
}

// ListOptions provides filtering and pagination options for inbox listings.
// Expired notifications are always excluded.
type ListOptions struct {
	Limit      int        // Maximum number of notifications to return (0 = no limit)
	Offset     int        // Number of notifications to skip for pagination
	OnlyUnread bool       // When true, only return unread notifications
	Topics     []Topic    // If specified, only return notifications with these topics
	Since      *time.Time // If specified, only return notifications created after this time
}
