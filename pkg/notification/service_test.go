package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/access"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/audit"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/cachehint"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/notification"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/orgsettings"
)

// MockRepository for verifying repository error propagation.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(notification.Notification), args.Error(1)
}

func (m *MockRepository) GetNotification(ctx context.Context, orgID, notifID string) (notification.Notification, error) {
	args := m.Called(ctx, orgID, notifID)
	return args.Get(0).(notification.Notification), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, orgID, notifID string, readAt time.Time) (notification.Notification, error) {
	args := m.Called(ctx, orgID, notifID, readAt)
	return args.Get(0).(notification.Notification), args.Error(1)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, orgID, userID string, before *time.Time, readAt time.Time) (int64, error) {
	args := m.Called(ctx, orgID, userID, before, readAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListNotifications(ctx context.Context, orgID, userID string, opts notification.ListOptions) ([]notification.Notification, error) {
	args := m.Called(ctx, orgID, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) DeleteNotification(ctx context.Context, orgID, notifID string) error {
	args := m.Called(ctx, orgID, notifID)
	return args.Error(0)
}

// testEnv bundles the collaborators most service tests share.
type testEnv struct {
	repo     *notification.MemoryRepository
	prefs    *notification.MemoryPreferenceRepository
	settings *orgsettings.MemoryLoader
	auditLog *audit.MemoryStorage
	hints    *cachehint.MemoryRegistrar
	email    *stubAdapter
	svc      *notification.Service
}

func newTestEnv(t *testing.T, guard access.Guard) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:     notification.NewMemoryRepository(),
		prefs:    notification.NewMemoryPreferenceRepository(),
		settings: orgsettings.NewMemoryLoader(),
		auditLog: audit.NewMemoryStorage(),
		hints:    cachehint.NewMemoryRegistrar(),
		email:    sentAdapter("postmark", notification.ChannelEmail),
	}

	coordinator := notification.NewCoordinator([]notification.Adapter{env.email})
	env.svc = notification.NewService(env.repo, guard, env.settings, coordinator,
		notification.WithPreferences(env.prefs),
		notification.WithAuditRecorder(audit.NewRecorder(env.auditLog)),
		notification.WithCacheHints(env.hints),
	)
	return env
}

func callerContext() access.Context {
	return access.Context{
		OrgID:          "org-1",
		UserID:         "admin-1",
		Classification: "confidential",
		ResidencyZone:  "eu-west",
		CorrelationID:  "corr-42",
	}
}

func composeInput() notification.ComposeInput {
	return notification.ComposeInput{
		Access: callerContext(),
		UserID: "user-1",
		Title:  "Policy updated",
		Body:   "The travel policy changed.",
		Topic:  notification.TopicOther,
		Targets: []notification.DeliveryTarget{
			{Channel: notification.ChannelEmail, Address: "user@example.com"},
		},
	}
}

func TestService_ComposeAndSend_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	out, err := env.svc.ComposeAndSend(context.Background(), composeInput())
	require.NoError(t, err)

	require.NotEmpty(t, out.Notification.ID)
	assert.Equal(t, "org-1", out.Notification.OrgID)
	assert.Equal(t, "user-1", out.Notification.UserID)
	assert.False(t, out.Notification.IsRead)
	assert.Nil(t, out.Notification.ReadAt)

	require.Len(t, out.Deliveries, 1)
	assert.Equal(t, notification.StatusSent, out.Deliveries[0].Status)
	assert.EqualValues(t, 1, env.email.calls.Load())

	// Exactly one audit entry with the compose action.
	entries := env.auditLog.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notification.compose", entries[0].Action)
	assert.Equal(t, out.Notification.ID, entries[0].ResourceID)
	assert.Equal(t, "eu-west", entries[0].ResidencyZone)

	// One cache hint scoped to org + governance tags.
	hints := env.hints.Hints()
	require.Len(t, hints, 1)
	assert.Equal(t, cachehint.Hint{OrgID: "org-1", Classification: "confidential", Residency: "eu-west"}, hints[0])
}

func TestService_ComposeAndSend_Normalization(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	out, err := env.svc.ComposeAndSend(context.Background(), composeInput())
	require.NoError(t, err)

	n := out.Notification
	assert.Equal(t, notification.DefaultRetentionPolicyID, n.RetentionPolicyID)
	assert.Equal(t, "confidential", n.DataClassification)
	assert.Equal(t, "eu-west", n.ResidencyTag)
	assert.Equal(t, "corr-42", n.CorrelationID)
	assert.Equal(t, notification.SchemaVersion, n.SchemaVersion)
	assert.Equal(t, notification.PriorityMedium, n.Priority)
	require.NotNil(t, n.CreatedBy)
	assert.Equal(t, "admin-1", *n.CreatedBy)
}

func TestService_ComposeAndSend_ExplicitOverrides(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	in := composeInput()
	in.RetentionPolicyID = "retention-hr-7y"
	in.DataClassification = "restricted"
	in.ResidencyTag = "us-east"
	in.Priority = notification.PriorityHigh

	out, err := env.svc.ComposeAndSend(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "retention-hr-7y", out.Notification.RetentionPolicyID)
	assert.Equal(t, "restricted", out.Notification.DataClassification)
	assert.Equal(t, "us-east", out.Notification.ResidencyTag)
	assert.Equal(t, notification.PriorityHigh, out.Notification.Priority)
}

func TestService_ComposeAndSend_DeniedGuardHasNoSideEffects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.DenyAll{})
	_, err := env.svc.ComposeAndSend(context.Background(), composeInput())
	require.ErrorIs(t, err, access.ErrAccessDenied)

	list, err := env.repo.ListNotifications(context.Background(), "org-1", "user-1", notification.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list, "denied compose must not persist")
	assert.Zero(t, env.auditLog.Len(), "denied compose must not audit")
	assert.EqualValues(t, 0, env.email.calls.Load())
}

func TestService_ComposeAndSend_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*notification.ComposeInput)
	}{
		{"missing title", func(in *notification.ComposeInput) { in.Title = "" }},
		{"missing body", func(in *notification.ComposeInput) { in.Body = "" }},
		{"missing target user", func(in *notification.ComposeInput) { in.UserID = "" }},
		{"unknown topic", func(in *notification.ComposeInput) { in.Topic = "marketing" }},
		{"unknown priority", func(in *notification.ComposeInput) { in.Priority = "urgent" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, access.AllowAll{})
			in := composeInput()
			tt.mutate(&in)

			_, err := env.svc.ComposeAndSend(context.Background(), in)
			require.ErrorIs(t, err, notification.ErrInvalidInput)

			list, listErr := env.repo.ListNotifications(context.Background(), "org-1", "user-1", notification.ListOptions{})
			require.NoError(t, listErr)
			assert.Empty(t, list)
		})
	}
}

func TestService_ComposeAndSend_OrgPolicySuppression(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	settings := orgsettings.DefaultSettings("org-1")
	settings.Notifications.ProductUpdates = false
	env.settings.Put(settings)

	in := composeInput()
	in.Topic = notification.TopicSystemAnnouncement

	out, err := env.svc.ComposeAndSend(context.Background(), in)
	require.NoError(t, err)

	// Record is still persisted.
	require.NotEmpty(t, out.Notification.ID)
	stored, err := env.repo.GetNotification(context.Background(), "org-1", out.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.TopicSystemAnnouncement, stored.Topic)

	// One synthesized skipped result per target, no adapter invocation.
	require.Len(t, out.Deliveries, 1)
	assert.Equal(t, notification.StatusSkipped, out.Deliveries[0].Status)
	assert.Equal(t, "suppressed by org notification settings", out.Deliveries[0].Detail)
	assert.EqualValues(t, 0, env.email.calls.Load())

	entries := env.auditLog.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notification.suppressed", entries[0].Action)
}

func TestService_ComposeAndSend_PreferenceSuppression(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	env.prefs.Set("org-1", "user-1", notification.Preference{
		Channel: notification.ChannelEmail,
		Enabled: false,
	})

	out, err := env.svc.ComposeAndSend(context.Background(), composeInput())
	require.NoError(t, err)

	require.Len(t, out.Deliveries, 1)
	assert.Equal(t, notification.StatusSkipped, out.Deliveries[0].Status)
	assert.Equal(t, "channel disabled by user preference", out.Deliveries[0].Detail)
	assert.EqualValues(t, 0, env.email.calls.Load())

	entries := env.auditLog.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notification.compose", entries[0].Action)
}

func TestService_ComposeAndSend_AdapterFailureDoesNotFailCall(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	env.email.result = notification.DeliveryResult{
		Provider: "postmark",
		Channel:  notification.ChannelEmail,
		Status:   notification.StatusFailed,
		Detail:   "postmark error: 406 - inactive recipient",
	}

	out, err := env.svc.ComposeAndSend(context.Background(), composeInput())
	require.NoError(t, err, "delivery failure must not fail the compose call")

	require.NotEmpty(t, out.Notification.ID)
	require.Len(t, out.Deliveries, 1)
	assert.Equal(t, notification.StatusFailed, out.Deliveries[0].Status)
	assert.Contains(t, out.Deliveries[0].Detail, "inactive recipient")
}

func TestService_ComposeAndSend_RepositoryErrorPropagates(t *testing.T) {
	t.Parallel()

	repo := new(MockRepository)
	repoErr := errors.New("connection refused")
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(notification.Notification{}, repoErr)

	auditLog := audit.NewMemoryStorage()
	svc := notification.NewService(repo, access.AllowAll{}, orgsettings.NewMemoryLoader(), notification.NewCoordinator(nil),
		notification.WithAuditRecorder(audit.NewRecorder(auditLog)),
	)

	_, err := svc.ComposeAndSend(context.Background(), composeInput())
	require.ErrorIs(t, err, repoErr)
	assert.Zero(t, auditLog.Len(), "failed persistence must not audit")
}

func TestService_ListInbox(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.svc.ComposeAndSend(ctx, composeInput())
		require.NoError(t, err)
	}

	out, err := env.svc.ListInbox(ctx, notification.ListInboxInput{
		Access: callerContext(),
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Len(t, out.Notifications, 3)
	assert.Equal(t, 3, out.UnreadCount)

	// Mark one read and recount.
	_, err = env.svc.MarkRead(ctx, notification.MarkReadInput{
		Access:         callerContext(),
		NotificationID: out.Notifications[0].ID,
	})
	require.NoError(t, err)

	out, err = env.svc.ListInbox(ctx, notification.ListInboxInput{
		Access: callerContext(),
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Len(t, out.Notifications, 3)
	assert.Equal(t, 2, out.UnreadCount)
}

func TestService_ListInbox_EmptyInbox(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	out, err := env.svc.ListInbox(context.Background(), notification.ListInboxInput{
		Access: callerContext(),
	})
	require.NoError(t, err)
	assert.Empty(t, out.Notifications)
	assert.Zero(t, out.UnreadCount)
	assert.Zero(t, env.auditLog.Len(), "inbox listing is not audited")
}

func TestService_MarkRead_Idempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	ctx := context.Background()

	out, err := env.svc.ComposeAndSend(ctx, composeInput())
	require.NoError(t, err)

	first, err := env.svc.MarkRead(ctx, notification.MarkReadInput{
		Access:         callerContext(),
		NotificationID: out.Notification.ID,
	})
	require.NoError(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	second, err := env.svc.MarkRead(ctx, notification.MarkReadInput{
		Access:         callerContext(),
		NotificationID: out.Notification.ID,
	})
	require.NoError(t, err, "re-marking an already-read record must not error")
	assert.True(t, second.IsRead)
	require.NotNil(t, second.ReadAt)
	assert.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix(), "read timestamp must not move")

	// compose + two mark-read audits
	entries := env.auditLog.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "notification.read", entries[1].Action)
	assert.Equal(t, "notification.read", entries[2].Action)
}

func TestService_MarkAllRead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := env.svc.ComposeAndSend(ctx, composeInput())
		require.NoError(t, err)
	}

	count, err := env.svc.MarkAllRead(ctx, notification.MarkAllReadInput{
		Access: callerContext(),
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	out, err := env.svc.ListInbox(ctx, notification.ListInboxInput{
		Access: callerContext(),
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Zero(t, out.UnreadCount)

	entries := env.auditLog.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, "notification.read-all", last.Action)
	assert.Equal(t, "bulk", last.ResourceID)
}

func TestService_MarkAllRead_WithCutoff(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	ctx := context.Background()

	_, err := env.svc.ComposeAndSend(ctx, composeInput())
	require.NoError(t, err)

	// A cutoff in the past matches nothing just composed.
	past := time.Now().Add(-time.Hour)
	count, err := env.svc.MarkAllRead(ctx, notification.MarkAllReadInput{
		Access: callerContext(),
		UserID: "user-1",
		Before: &past,
	})
	require.NoError(t, err)
	assert.Zero(t, count)

	// A future cutoff covers everything.
	future := time.Now().Add(time.Hour)
	count, err = env.svc.MarkAllRead(ctx, notification.MarkAllReadInput{
		Access: callerContext(),
		UserID: "user-1",
		Before: &future,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestService_DeleteNotification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	ctx := context.Background()

	out, err := env.svc.ComposeAndSend(ctx, composeInput())
	require.NoError(t, err)

	err = env.svc.DeleteNotification(ctx, notification.DeleteInput{
		Access:         callerContext(),
		NotificationID: out.Notification.ID,
	})
	require.NoError(t, err)

	_, err = env.repo.GetNotification(ctx, "org-1", out.Notification.ID)
	require.ErrorIs(t, err, notification.ErrNotificationNotFound)

	entries := env.auditLog.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, "notification.delete", last.Action)
	assert.Equal(t, out.Notification.ID, last.ResourceID)
}

func TestService_DeleteNotification_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, access.AllowAll{})
	err := env.svc.DeleteNotification(context.Background(), notification.DeleteInput{
		Access:         callerContext(),
		NotificationID: "missing",
	})
	require.ErrorIs(t, err, notification.ErrNotificationNotFound)
	assert.Zero(t, env.auditLog.Len())
}
