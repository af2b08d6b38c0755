package audit

import (
	"context"
	"log/slog"
)

// SlogStorage emits audit entries as structured log records.
// Deployments that ship logs to an aggregation pipeline can use this as the
// audit sink without a dedicated audit database.
type SlogStorage struct {
	logger *slog.Logger
}

// NewSlogStorage creates a Storage that writes entries to the given logger.
// A nil logger falls back to slog.Default().
func NewSlogStorage(logger *slog.Logger) *SlogStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogStorage{logger: logger}
}

func (s *SlogStorage) Store(ctx context.Context, entry Entry) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("audit_id", entry.ID),
		slog.String("org_id", entry.OrgID),
		slog.String("user_id", entry.UserID),
		slog.String("event_type", entry.EventType),
		slog.String("action", entry.Action),
		slog.String("resource", entry.Resource),
		slog.String("resource_id", entry.ResourceID),
		slog.String("correlation_id", entry.CorrelationID),
		slog.String("residency_zone", entry.ResidencyZone),
		slog.String("classification", entry.Classification),
		slog.String("audit_source", entry.AuditSource),
		slog.Any("payload", entry.Payload),
		slog.Time("created_at", entry.CreatedAt),
	)
	return nil
}
