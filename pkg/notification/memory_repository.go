package notification

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of the Repository
// interface. Suitable for development and testing.
type MemoryRepository struct {
	mu            sync.RWMutex
	notifications map[string][]Notification // orgID -> notifications
}

// NewMemoryRepository creates a new in-memory notification repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		notifications: make(map[string][]Notification),
	}
}

func (r *MemoryRepository) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return Notification{}, errors.New("notification ID is required")
	}
	if n.OrgID == "" {
		return Notification{}, errors.New("org ID is required")
	}
	if n.UserID == "" {
		return Notification{}, errors.New("user ID is required")
	}

	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	r.notifications[n.OrgID] = append(r.notifications[n.OrgID], n)
	return n, nil
}

func (r *MemoryRepository) GetNotification(ctx context.Context, orgID, notifID string) (Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notifications[orgID] {
		if n.ID == notifID {
			return n, nil
		}
	}
	return Notification{}, ErrNotificationNotFound
}

func (r *MemoryRepository) MarkRead(ctx context.Context, orgID, notifID string, readAt time.Time) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.notifications[orgID]
	for i := range list {
		if list[i].ID == notifID {
			list[i].MarkAsRead(readAt)
			return list[i], nil
		}
	}
	return Notification{}, ErrNotificationNotFound
}

func (r *MemoryRepository) MarkAllRead(ctx context.Context, orgID, userID string, before *time.Time, readAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	list := r.notifications[orgID]
	for i := range list {
		if list[i].UserID != userID || list[i].IsRead {
			continue
		}
		if before != nil {
			// Cutoff compares against the last-touched time, inclusive.
			touched := list[i].UpdatedAt
			if touched.IsZero() {
				touched = list[i].CreatedAt
			}
			if touched.After(*before) {
				continue
			}
		}
		list[i].MarkAsRead(readAt)
		updated++
	}
	return updated, nil
}

func (r *MemoryRepository) ListNotifications(ctx context.Context, orgID, userID string, opts ListOptions) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []Notification
	for _, n := range r.notifications[orgID] {
		if n.UserID != userID {
			continue
		}
		if n.IsExpired() {
			continue
		}
		if opts.OnlyUnread && n.IsRead {
			continue
		}
		if len(opts.Topics) > 0 && !slices.Contains(opts.Topics, n.Topic) {
			continue
		}
		if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
			continue
		}
		filtered = append(filtered, n)
	}

	// Newest first.
	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Notification{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (r *MemoryRepository) DeleteNotification(ctx context.Context, orgID, notifID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.notifications[orgID]
	for i := range list {
		if list[i].ID == notifID {
			r.notifications[orgID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}
