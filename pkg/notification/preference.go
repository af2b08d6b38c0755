package notification

import (
	"context"
	"sync"
)

// Preference is a per-user, per-channel opt-in/out row. It is owned by the
// preference-management flow and read-only from this subsystem's perspective.
type Preference struct {
	Channel         Channel        `json:"channel"`
	Enabled         bool           `json:"enabled"`
	QuietHoursStart string         `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string         `json:"quiet_hours_end,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// PreferenceRepository loads channel preferences for a user.
type PreferenceRepository interface {
	GetNotificationPreferencesByUser(ctx context.Context, orgID, userID string) ([]Preference, error)
}

// DisabledChannels resolves the set of channels the user has opted out of.
// A nil repository means no preference store is configured, which resolves to
// an empty set: no channel is disabled.
func DisabledChannels(ctx context.Context, repo PreferenceRepository, orgID, userID string) (map[Channel]struct{}, error) {
	disabled := make(map[Channel]struct{})
	if repo == nil {
		return disabled, nil
	}

	prefs, err := repo.GetNotificationPreferencesByUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	for _, p := range prefs {
		if !p.Enabled {
			disabled[p.Channel] = struct{}{}
		}
	}
	return disabled, nil
}

// MemoryPreferenceRepository is an in-memory PreferenceRepository.
// Suitable for development and testing.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string][]Preference // orgID/userID -> preferences
}

// NewMemoryPreferenceRepository creates an empty in-memory preference store.
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{prefs: make(map[string][]Preference)}
}

// Set replaces the preference rows for a user.
func (r *MemoryPreferenceRepository) Set(orgID, userID string, prefs ...Preference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[orgID+"/"+userID] = append([]Preference(nil), prefs...)
}

func (r *MemoryPreferenceRepository) GetNotificationPreferencesByUser(ctx context.Context, orgID, userID string) ([]Preference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs := r.prefs[orgID+"/"+userID]
	out := make([]Preference, len(prefs))
	copy(out, prefs)
	return out, nil
}
