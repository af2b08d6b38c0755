package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/notification"
)

func TestNotification_IsExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"no expiry never expires", nil, false},
		{"past expiry", &past, true},
		{"future expiry", &future, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := notification.Notification{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, n.IsExpired())
		})
	}
}

func TestNotification_MarkAsRead(t *testing.T) {
	t.Parallel()

	n := notification.Notification{}
	first := time.Now()
	n.MarkAsRead(first)

	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, first, *n.ReadAt)
	assert.Equal(t, first, n.UpdatedAt)

	// Re-marking is a no-op: the original read timestamp is preserved.
	n.MarkAsRead(first.Add(time.Hour))
	assert.Equal(t, first, *n.ReadAt)
	assert.Equal(t, first, n.UpdatedAt)
}

func TestPriorityIsValid(t *testing.T) {
	t.Parallel()

	for _, p := range []notification.Priority{
		notification.PriorityLow,
		notification.PriorityMedium,
		notification.PriorityHigh,
	} {
		assert.True(t, p.IsValid(), "priority %s", p)
	}
	assert.False(t, notification.Priority("urgent").IsValid())
	assert.False(t, notification.Priority("").IsValid())
}
