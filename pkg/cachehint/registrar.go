package cachehint

import (
	"context"
	"sync"
)

// Hint identifies a cache scope that must be refreshed after a write.
// Downstream read layers key cached pages by organization plus the
// data-governance tags, so all three fields participate in the scope.
type Hint struct {
	OrgID          string `json:"org_id"`
	Classification string `json:"classification,omitempty"`
	Residency      string `json:"residency,omitempty"`
}

// Registrar receives cache invalidation hints from write paths.
// Register must be cheap and must never fail the calling operation;
// implementations log and swallow backend errors.
type Registrar interface {
	Register(ctx context.Context, hint Hint)
}

// MemoryRegistrar collects hints in memory. Suitable for tests and for
// single-process deployments where the read cache lives in the same process.
type MemoryRegistrar struct {
	mu    sync.Mutex
	hints []Hint
}

// NewMemoryRegistrar creates an empty in-memory registrar.
func NewMemoryRegistrar() *MemoryRegistrar {
	return &MemoryRegistrar{}
}

func (r *MemoryRegistrar) Register(ctx context.Context, hint Hint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hints = append(r.hints, hint)
}

// Hints returns a copy of all registered hints in order.
func (r *MemoryRegistrar) Hints() []Hint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Hint, len(r.hints))
	copy(out, r.hints)
	return out
}

// NoOpRegistrar discards all hints.
type NoOpRegistrar struct{}

func (NoOpRegistrar) Register(ctx context.Context, hint Hint) {}
