package orgsettings

import (
	"context"
	"sync"
)

// Loader resolves organization settings by org id.
// Implementations must return DefaultSettings for unknown organizations
// rather than an error so callers can rely on a total function.
type Loader interface {
	LoadOrgSettings(ctx context.Context, orgID string) (Settings, error)
}

// MemoryLoader is an in-memory Loader. Suitable for tests and small
// deployments where settings are seeded at startup.
type MemoryLoader struct {
	mu       sync.RWMutex
	settings map[string]Settings
}

// NewMemoryLoader creates a loader seeded with the given settings.
func NewMemoryLoader(settings ...Settings) *MemoryLoader {
	m := &MemoryLoader{settings: make(map[string]Settings, len(settings))}
	for _, s := range settings {
		m.settings[s.OrgID] = s
	}
	return m
}

// Put stores or replaces settings for an organization.
func (m *MemoryLoader) Put(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.OrgID] = s
}

func (m *MemoryLoader) LoadOrgSettings(ctx context.Context, orgID string) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.settings[orgID]; ok {
		return s, nil
	}
	return DefaultSettings(orgID), nil
}
