package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/access"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/audit"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/cachehint"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/orgsettings"
)

// Guard action names for notification operations.
const (
	ActionCompose   = "notifications.compose"
	ActionList      = "notifications.list"
	ActionUpdate    = "notifications.update"
	ActionUpdateAll = "notifications.update-all"
	ActionDelete    = "notifications.delete"
)

// Audit action names. Exactly one audit entry is written per successful
// mutating operation; inbox listing is read-only and not audited.
const (
	AuditCompose    = "notification.compose"
	AuditSuppressed = "notification.suppressed"
	AuditRead       = "notification.read"
	AuditReadAll    = "notification.read-all"
	AuditDelete     = "notification.delete"
)

// resourceType is the guard/audit resource identifier for notifications.
const resourceType = "notification"

// bulkResourceID is the synthetic audit resource id for bulk operations
// where no single record id applies.
const bulkResourceID = "bulk"

// DefaultRetentionPolicyID is applied to records whose caller did not name a
// retention rule. Every record must be attributable to one.
const DefaultRetentionPolicyID = "retention-default"

// Service orchestrates notification composition, delivery, inbox access, and
// the audit trail around them. All collaborators are injected; the guard,
// repository, and settings loader are required, everything else degrades to
// a safe default.
type Service struct {
	repo        Repository
	prefs       PreferenceRepository // nil means no preference store, nothing disabled
	guard       access.Guard
	settings    orgsettings.Loader
	coordinator *Coordinator
	auditor     audit.Recorder
	hints       cachehint.Registrar
	logger      *slog.Logger

	retentionPolicyID string
	auditSource       string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPreferences sets the preference repository used for channel opt-outs.
func WithPreferences(prefs PreferenceRepository) ServiceOption {
	return func(s *Service) { s.prefs = prefs }
}

// WithAuditRecorder sets the audit sink. Defaults to a no-op recorder.
func WithAuditRecorder(rec audit.Recorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.auditor = rec
		}
	}
}

// WithCacheHints sets the cache invalidation registrar. Defaults to no-op.
func WithCacheHints(reg cachehint.Registrar) ServiceOption {
	return func(s *Service) {
		if reg != nil {
			s.hints = reg
		}
	}
}

// WithServiceLogger sets the logger for the Service.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithDefaultRetentionPolicy overrides the fallback retention policy id.
func WithDefaultRetentionPolicy(id string) ServiceOption {
	return func(s *Service) {
		if id != "" {
			s.retentionPolicyID = id
		}
	}
}

// WithAuditSource sets the audit source string stamped on records and audit
// entries produced by this service instance.
func WithAuditSource(source string) ServiceOption {
	return func(s *Service) {
		if source != "" {
			s.auditSource = source
		}
	}
}

// NewService creates a notification service.
func NewService(repo Repository, guard access.Guard, settings orgsettings.Loader, coordinator *Coordinator, opts ...ServiceOption) *Service {
	if repo == nil {
		panic("notification: repository cannot be nil")
	}
	if guard == nil {
		panic("notification: guard cannot be nil")
	}
	if settings == nil {
		panic("notification: settings loader cannot be nil")
	}
	if coordinator == nil {
		coordinator = NewCoordinator(nil)
	}

	s := &Service{
		repo:              repo,
		guard:             guard,
		settings:          settings,
		coordinator:       coordinator,
		auditor:           audit.NoOpRecorder{},
		hints:             cachehint.NoOpRegistrar{},
		logger:            slog.Default(),
		retentionPolicyID: DefaultRetentionPolicyID,
		auditSource:       "notification-service",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComposeInput is the caller-supplied payload for ComposeAndSend.
type ComposeInput struct {
	Access access.Context

	// UserID is the target user the notification belongs to.
	UserID string

	Title    string
	Body     string
	Topic    Topic
	Priority Priority

	ActionURL   string
	ActionLabel string

	ScheduledAt *time.Time
	ExpiresAt   *time.Time

	// RetentionPolicyID, DataClassification, and ResidencyTag override the
	// service default and authorization context values when set.
	RetentionPolicyID  string
	DataClassification string
	ResidencyTag       string

	Metadata map[string]any

	Targets []DeliveryTarget
}

// Validate fails fast on missing required fields before normalization.
func (in ComposeInput) Validate() error {
	if in.Access.OrgID == "" {
		return fmt.Errorf("%w: org id is required", ErrInvalidInput)
	}
	if in.UserID == "" {
		return fmt.Errorf("%w: target user id is required", ErrInvalidInput)
	}
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Body == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	if !in.Topic.IsValid() {
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidInput, in.Topic)
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}

// ComposeOutput is the result of ComposeAndSend: the persisted record plus
// one delivery result per requested target, in target order.
type ComposeOutput struct {
	Notification Notification
	Deliveries   []DeliveryResult
}

// ComposeAndSend authorizes, normalizes, persists, and dispatches a
// notification. The record is persisted exactly once, before dispatch, so it
// exists even when every delivery fails. Delivery failures never fail the
// call; callers inspect Deliveries for per-target outcomes.
func (s *Service) ComposeAndSend(ctx context.Context, in ComposeInput) (ComposeOutput, error) {
	if err := s.guard.AssertAccess(ctx, access.Request{
		OrgID:        in.Access.OrgID,
		UserID:       in.Access.UserID,
		Action:       ActionCompose,
		ResourceType: resourceType,
		ResourceAttributes: map[string]string{
			"topic":      string(in.Topic),
			"targetUser": in.UserID,
		},
	}); err != nil {
		return ComposeOutput{}, err
	}

	if err := in.Validate(); err != nil {
		return ComposeOutput{}, err
	}

	record := s.normalize(in)

	settings, err := s.settings.LoadOrgSettings(ctx, in.Access.OrgID)
	if err != nil {
		return ComposeOutput{}, fmt.Errorf("load org settings: %w", err)
	}
	allowed := ShouldDeliver(settings.Notifications, record.Topic)

	// Preference loading is skipped entirely when org policy suppresses the
	// topic; the policy decision makes per-channel opt-outs irrelevant.
	var disabled map[Channel]struct{}
	if allowed {
		disabled, err = DisabledChannels(ctx, s.prefs, record.OrgID, record.UserID)
		if err != nil {
			return ComposeOutput{}, fmt.Errorf("load preferences: %w", err)
		}
	}

	record, err = s.repo.CreateNotification(ctx, record)
	if err != nil {
		return ComposeOutput{}, err
	}

	var deliveries []DeliveryResult
	auditAction := AuditCompose
	if allowed {
		deliveries = s.coordinator.Dispatch(ctx, record, in.Targets, disabled)
	} else {
		auditAction = AuditSuppressed
		deliveries = make([]DeliveryResult, len(in.Targets))
		for i, target := range in.Targets {
			deliveries[i] = DeliveryResult{
				Channel: target.Channel,
				Status:  StatusSkipped,
				Detail:  DetailSuppressedByOrg,
			}
		}
	}

	s.hints.Register(ctx, cachehint.Hint{
		OrgID:          record.OrgID,
		Classification: record.DataClassification,
		Residency:      record.ResidencyTag,
	})

	s.recordAudit(ctx, in.Access, auditAction, record.ID, map[string]any{
		"topic":      string(record.Topic),
		"priority":   string(record.Priority),
		"deliveries": deliveries,
	}, record.CorrelationID)

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Notification composed",
		logger.NotificationID(record.ID),
		logger.OrgID(record.OrgID),
		logger.UserID(record.UserID),
		logger.Topic(string(record.Topic)),
		logger.Action(auditAction),
		logger.Count(len(deliveries)),
	)

	return ComposeOutput{Notification: record, Deliveries: deliveries}, nil
}

// normalize builds the durable record from caller input, the authorization
// context, and service defaults.
func (s *Service) normalize(in ComposeInput) Notification {
	now := time.Now()

	retention := in.RetentionPolicyID
	if retention == "" {
		retention = s.retentionPolicyID
	}

	classification := in.DataClassification
	if classification == "" {
		classification = in.Access.Classification
	}

	residency := in.ResidencyTag
	if residency == "" {
		residency = in.Access.ResidencyZone
	}

	correlationID := in.Access.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	var createdBy *string
	if in.Access.UserID != "" {
		callerID := in.Access.UserID
		createdBy = &callerID
	}

	return Notification{
		ID:                 uuid.New().String(),
		OrgID:              in.Access.OrgID,
		UserID:             in.UserID,
		Title:              in.Title,
		Body:               in.Body,
		Topic:              in.Topic,
		Priority:           priority,
		IsRead:             false,
		ActionURL:          in.ActionURL,
		ActionLabel:        in.ActionLabel,
		ScheduledAt:        in.ScheduledAt,
		ExpiresAt:          in.ExpiresAt,
		RetentionPolicyID:  retention,
		DataClassification: classification,
		ResidencyTag:       residency,
		AuditSource:        s.auditSource,
		CorrelationID:      correlationID,
		SchemaVersion:      SchemaVersion,
		CreatedBy:          createdBy,
		Metadata:           in.Metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ListInboxInput selects the inbox to read. UserID defaults to the caller.
type ListInboxInput struct {
	Access  access.Context
	UserID  string
	Options ListOptions
}

// ListInboxOutput is the inbox page plus the unread count over it.
type ListInboxOutput struct {
	Notifications []Notification
	UnreadCount   int
}

// ListInbox returns notifications for the target user. Read-only and
// high-frequency, so no audit entry is written.
func (s *Service) ListInbox(ctx context.Context, in ListInboxInput) (ListInboxOutput, error) {
	targetUser := in.UserID
	if targetUser == "" {
		targetUser = in.Access.UserID
	}

	if err := s.guard.AssertAccess(ctx, access.Request{
		OrgID:        in.Access.OrgID,
		UserID:       in.Access.UserID,
		Action:       ActionList,
		ResourceType: resourceType,
		ResourceAttributes: map[string]string{
			"targetUser": targetUser,
		},
	}); err != nil {
		return ListInboxOutput{}, err
	}

	notifications, err := s.repo.ListNotifications(ctx, in.Access.OrgID, targetUser, in.Options)
	if err != nil {
		return ListInboxOutput{}, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	s.hints.Register(ctx, cachehint.Hint{
		OrgID:          in.Access.OrgID,
		Classification: in.Access.Classification,
		Residency:      in.Access.ResidencyZone,
	})

	return ListInboxOutput{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkReadInput identifies one notification to mark as read.
type MarkReadInput struct {
	Access         access.Context
	NotificationID string
}

// MarkRead marks a single notification as read. Re-marking an already-read
// record is idempotent: no error, same resulting state.
func (s *Service) MarkRead(ctx context.Context, in MarkReadInput) (Notification, error) {
	if err := s.guard.AssertAccess(ctx, access.Request{
		OrgID:        in.Access.OrgID,
		UserID:       in.Access.UserID,
		Action:       ActionUpdate,
		ResourceType: resourceType,
	}); err != nil {
		return Notification{}, err
	}

	record, err := s.repo.MarkRead(ctx, in.Access.OrgID, in.NotificationID, time.Now())
	if err != nil {
		return Notification{}, err
	}

	s.recordAudit(ctx, in.Access, AuditRead, record.ID, nil, record.CorrelationID)

	return record, nil
}

// MarkAllReadInput scopes the bulk mark-read. UserID defaults to the caller;
// Before, when set, restricts the update to records last touched at or
// before the cutoff.
type MarkAllReadInput struct {
	Access access.Context
	UserID string
	Before *time.Time
}

// MarkAllRead marks every unread notification for the target user as read
// and returns the number of rows updated. Audited once with a synthetic
// "bulk" resource id since no single record id applies.
func (s *Service) MarkAllRead(ctx context.Context, in MarkAllReadInput) (int64, error) {
	targetUser := in.UserID
	if targetUser == "" {
		targetUser = in.Access.UserID
	}

	if err := s.guard.AssertAccess(ctx, access.Request{
		OrgID:        in.Access.OrgID,
		UserID:       in.Access.UserID,
		Action:       ActionUpdateAll,
		ResourceType: resourceType,
		ResourceAttributes: map[string]string{
			"targetUser": targetUser,
		},
	}); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkAllRead(ctx, in.Access.OrgID, targetUser, in.Before, time.Now())
	if err != nil {
		return 0, err
	}

	s.recordAudit(ctx, in.Access, AuditReadAll, bulkResourceID, map[string]any{
		"updated":    count,
		"targetUser": targetUser,
	}, in.Access.CorrelationID)

	return count, nil
}

// DeleteInput identifies one notification to delete.
type DeleteInput struct {
	Access         access.Context
	NotificationID string
}

// DeleteNotification removes a notification by id.
func (s *Service) DeleteNotification(ctx context.Context, in DeleteInput) error {
	if err := s.guard.AssertAccess(ctx, access.Request{
		OrgID:        in.Access.OrgID,
		UserID:       in.Access.UserID,
		Action:       ActionDelete,
		ResourceType: resourceType,
	}); err != nil {
		return err
	}

	if err := s.repo.DeleteNotification(ctx, in.Access.OrgID, in.NotificationID); err != nil {
		return err
	}

	s.recordAudit(ctx, in.Access, AuditDelete, in.NotificationID, nil, in.Access.CorrelationID)

	return nil
}

// recordAudit writes one audit entry for a completed operation. The
// operation has already committed, so a failing audit sink is logged rather
// than surfaced to the caller.
func (s *Service) recordAudit(ctx context.Context, ac access.Context, action, resourceID string, payload map[string]any, correlationID string) {
	err := s.auditor.Record(ctx, audit.Entry{
		OrgID:          ac.OrgID,
		UserID:         ac.UserID,
		EventType:      resourceType,
		Action:         action,
		Resource:       resourceType,
		ResourceID:     resourceID,
		Payload:        payload,
		CorrelationID:  correlationID,
		ResidencyZone:  ac.ResidencyZone,
		Classification: ac.Classification,
		AuditSource:    s.auditSource,
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "Failed to write audit entry",
			logger.OrgID(ac.OrgID),
			logger.Action(action),
			logger.Error(err),
		)
	}
}
