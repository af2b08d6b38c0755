package notification

import (
	"context"
)

// Payload is the normalized delivery payload handed to adapters. The
// coordinator builds one per target from the persisted notification.
type Payload struct {
	OrgID         string
	UserID        string
	Destination   string
	Subject       string
	Body          string
	ActionURL     string
	CorrelationID string
}

// Adapter delivers a payload through one external provider on one channel.
//
// Send never returns an error: every outcome, including a missing
// configuration or a transport failure, is folded into the DeliveryResult so
// one provider's problems cannot abort the dispatch of other targets.
type Adapter interface {
	// Provider returns the stable provider identifier, e.g. "postmark".
	Provider() string

	// Channel returns the delivery channel this adapter serves.
	Channel() Channel

	// Send delivers the payload and reports the outcome.
	Send(ctx context.Context, payload Payload) DeliveryResult
}
