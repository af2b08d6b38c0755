package access

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const (
	permissionWildcard  = "*"
	permissionDelimiter = "."
)

// StaticGuard is a Guard backed by an in-process permission table keyed by
// user id. Permissions are dot-delimited action scopes with optional wildcard
// suffixes, e.g. "notifications.*" matches "notifications.compose".
//
// It serves small deployments and tests; production deployments typically
// wrap an external policy evaluator behind the Guard interface instead.
type StaticGuard struct {
	mu          sync.RWMutex
	permissions map[string][]string // userID -> permission scopes
}

// NewStaticGuard creates a guard from a user-to-permissions table.
func NewStaticGuard(permissions map[string][]string) *StaticGuard {
	table := make(map[string][]string, len(permissions))
	for userID, perms := range permissions {
		table[userID] = append([]string(nil), perms...)
	}
	return &StaticGuard{permissions: table}
}

// Grant adds permission scopes for a user.
func (g *StaticGuard) Grant(userID string, perms ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.permissions[userID] = append(g.permissions[userID], perms...)
}

func (g *StaticGuard) AssertAccess(ctx context.Context, req Request) error {
	g.mu.RLock()
	perms, ok := g.permissions[req.UserID]
	g.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: unknown user %q", ErrAccessDenied, req.UserID)
	}

	for _, p := range perms {
		if scopeMatches(req.Action, p) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s on %s", ErrAccessDenied, req.Action, req.ResourceType)
}

// scopeMatches checks whether action matches a permission pattern.
// Rules: direct match, global wildcard "*", and namespace wildcards such as
// "notifications.*" matching "notifications.compose".
func scopeMatches(action, pattern string) bool {
	if action == pattern || pattern == permissionWildcard {
		return true
	}

	if strings.HasSuffix(pattern, permissionWildcard) {
		prefix := strings.TrimSuffix(pattern, permissionWildcard)
		prefix = strings.TrimSuffix(prefix, permissionDelimiter)
		return strings.HasPrefix(action, prefix+permissionDelimiter)
	}

	return false
}
