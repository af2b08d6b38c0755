package audit

import (
	"fmt"
	"time"
)

// Entry represents a single audit trail record.
//
// Entries are write-only from the perspective of business services: they are
// produced by a Recorder implementation and queried through whatever backend
// the deployment uses.
type Entry struct {
	ID             string         `json:"id"`
	OrgID          string         `json:"org_id"`
	UserID         string         `json:"user_id"`
	EventType      string         `json:"event_type"`
	Action         string         `json:"action"`
	Resource       string         `json:"resource"`
	ResourceID     string         `json:"resource_id"`
	Payload        map[string]any `json:"payload,omitempty"`
	CorrelationID  string         `json:"correlation_id,omitempty"`
	ResidencyZone  string         `json:"residency_zone,omitempty"`
	Classification string         `json:"classification,omitempty"`
	AuditSource    string         `json:"audit_source,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate checks if the entry has all required fields.
func (e *Entry) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEntryValidation)
	}
	if e.OrgID == "" {
		return fmt.Errorf("%w: org id is required", ErrEntryValidation)
	}
	return nil
}
