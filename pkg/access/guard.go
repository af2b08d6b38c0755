package access

import (
	"context"
	"fmt"
)

// Request describes a single authorization check: who wants to perform which
// action on which resource. ResourceAttributes carry fine-grained attributes
// (e.g. notification topic, target user) for attribute-based policies.
type Request struct {
	OrgID              string
	UserID             string
	Action             string
	ResourceType       string
	ResourceAttributes map[string]string
}

// Guard is the authorization boundary consumed by business services.
// AssertAccess returns nil when the request is allowed; otherwise it returns
// an error wrapping ErrAccessDenied. Services must call the guard before any
// persistence or dispatch side effect.
type Guard interface {
	AssertAccess(ctx context.Context, req Request) error
}

// AllowAll is a Guard that permits every request. Useful in tests and for
// internal system callers that bypass user-level authorization.
type AllowAll struct{}

func (AllowAll) AssertAccess(ctx context.Context, req Request) error { return nil }

// DenyAll is a Guard that rejects every request.
type DenyAll struct{}

func (DenyAll) AssertAccess(ctx context.Context, req Request) error {
	return fmt.Errorf("%w: %s on %s", ErrAccessDenied, req.Action, req.ResourceType)
}
