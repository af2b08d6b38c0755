package notification

import (
	"context"
	"fmt"
	"time"
)

// ProviderHub is the provider id of the in-app broadcast adapter.
const ProviderHub = "hub"

// InAppAdapter publishes IN_APP-channel payloads to the broadcast hub so
// connected clients receive them live. The durable record is already
// persisted by the time the adapter runs, so zero live subscribers is still
// a successful delivery: the inbox is the durable path.
type InAppAdapter struct {
	hub *Hub
}

// NewInAppAdapter creates an in-app adapter. hub may be nil (unconfigured).
func NewInAppAdapter(hub *Hub) *InAppAdapter {
	return &InAppAdapter{hub: hub}
}

func (a *InAppAdapter) Provider() string { return ProviderHub }

func (a *InAppAdapter) Channel() Channel { return ChannelInApp }

func (a *InAppAdapter) Send(ctx context.Context, payload Payload) DeliveryResult {
	result := DeliveryResult{Provider: a.Provider(), Channel: a.Channel()}

	if a.hub == nil {
		result.Status = StatusSkipped
		result.Detail = "in-app hub not configured"
		return result
	}

	now := time.Now()
	delivered := a.hub.Publish(ctx, Notification{
		OrgID:         payload.OrgID,
		UserID:        payload.UserID,
		Title:         payload.Subject,
		Body:          payload.Body,
		ActionURL:     payload.ActionURL,
		CorrelationID: payload.CorrelationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	result.Status = StatusSent
	result.Detail = fmt.Sprintf("delivered to %d live subscribers", delivered)
	return result
}
