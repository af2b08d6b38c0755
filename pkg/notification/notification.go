package notification

import (
	"time"
)

// Topic is the closed category set driving org-level delivery policy.
type Topic string

const (
	TopicPolicyUpdate       Topic = "policy-update"
	TopicComplianceReminder Topic = "compliance-reminder"
	TopicDocumentExpiry     Topic = "document-expiry"
	TopicSystemAnnouncement Topic = "system-announcement"
	TopicBroadcast          Topic = "broadcast"
	TopicOther              Topic = "other"
)

// Topics lists every known topic. Policy evaluation must stay total over
// this set.
var Topics = []Topic{
	TopicPolicyUpdate,
	TopicComplianceReminder,
	TopicDocumentExpiry,
	TopicSystemAnnouncement,
	TopicBroadcast,
	TopicOther,
}

// IsValid reports whether the topic belongs to the closed set.
func (t Topic) IsValid() bool {
	switch t {
	case TopicPolicyUpdate, TopicComplianceReminder, TopicDocumentExpiry,
		TopicSystemAnnouncement, TopicBroadcast, TopicOther:
		return true
	}
	return false
}

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether the priority is one of the known levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Channel is a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelInApp Channel = "IN_APP"
	ChannelSMS   Channel = "SMS"
)

// SchemaVersion is the current notification record schema version. It is a
// monotonic integer bumped on forward-incompatible shape changes so stored
// records can be migrated lazily.
const SchemaVersion = 1

// Notification is the durable notification record.
//
// OrgID is set exactly once at creation and never changes. RetentionPolicyID
// is always populated (a configured default is applied when the caller omits
// it). DataClassification and ResidencyTag are copied from the authorization
// context unless the caller explicitly overrides them. Content fields are
// immutable once composed; only the read state changes afterwards.
type Notification struct {
	ID                 string         `json:"id"`
	OrgID              string         `json:"org_id"`
	UserID             string         `json:"user_id"`
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Topic              Topic          `json:"topic"`
	Priority           Priority       `json:"priority"`
	IsRead             bool           `json:"is_read"`
	ReadAt             *time.Time     `json:"read_at,omitempty"`
	ActionURL          string         `json:"action_url,omitempty"`
	ActionLabel        string         `json:"action_label,omitempty"`
	ScheduledAt        *time.Time     `json:"scheduled_at,omitempty"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	RetentionPolicyID  string         `json:"retention_policy_id"`
	DataClassification string         `json:"data_classification"`
	ResidencyTag       string         `json:"residency_tag"`
	AuditSource        string         `json:"audit_source,omitempty"`
	CorrelationID      string         `json:"correlation_id,omitempty"`
	SchemaVersion      int            `json:"schema_version"`
	CreatedBy          *string        `json:"created_by,omitempty"` // nil for system-generated records
	Metadata           map[string]any `json:"metadata,omitempty"`
	AuditTrail         map[string]any `json:"audit_trail,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*n.ExpiresAt)
}

// MarkAsRead sets the read flag and timestamp atomically. Calling it on an
// already-read record is a no-op so the transition stays idempotent.
func (n *Notification) MarkAsRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &at
	n.UpdatedAt = at
}

// DeliveryTarget is a caller-supplied, transient delivery request: which
// channel, to which address, and optionally through which named provider.
type DeliveryTarget struct {
	Channel  Channel `json:"channel"`
	Address  string  `json:"address"`
	Provider string  `json:"provider,omitempty"`
}

// DeliveryStatus is the outcome class of one delivery attempt.
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "sent"
	StatusQueued  DeliveryStatus = "queued"
	StatusSkipped DeliveryStatus = "skipped"
	StatusFailed  DeliveryStatus = "failed"
)

// DeliveryResult is the transient per-target outcome. It is not persisted as
// a discrete entity but embedded in the audit payload of the compose call.
type DeliveryResult struct {
	Provider   string         `json:"provider,omitempty"`
	Channel    Channel        `json:"channel"`
	Status     DeliveryStatus `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
}

// Suppression detail strings. Callers pattern-match on these to distinguish
// org-level from preference-level suppression, so they must not change.
const (
	DetailSuppressedByOrg       = "suppressed by org notification settings"
	DetailChannelDisabledByUser = "channel disabled by user preference"
)
