package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder is the write-only audit sink consumed by business services.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// Record persists a single audit entry.
	Record(ctx context.Context, entry Entry) error
}

// recorder stamps identity and timestamps before handing entries to storage.
type recorder struct {
	storage Storage
}

// Storage persists audit entries.
type Storage interface {
	Store(ctx context.Context, entry Entry) error
}

// NewRecorder creates a Recorder backed by the given storage.
func NewRecorder(storage Storage) Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &recorder{storage: storage}
}

func (r *recorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	return r.storage.Store(ctx, entry)
}

// NoOpRecorder discards all entries. Useful when auditing is disabled.
type NoOpRecorder struct{}

func (NoOpRecorder) Record(ctx context.Context, entry Entry) error { return nil }
