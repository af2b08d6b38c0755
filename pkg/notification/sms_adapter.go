package notification

import (
	"context"
	"log/slog"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/sms"
)

// ProviderSMSGateway is the provider id of the HTTP SMS gateway adapter.
const ProviderSMSGateway = "smsgateway"

// SMSAdapter delivers SMS-channel payloads through an SMSSender.
// A nil sender marks the adapter as unconfigured and sends are skipped.
type SMSAdapter struct {
	sender sms.SMSSender
	logger *slog.Logger
}

// SMSAdapterOption configures an SMSAdapter.
type SMSAdapterOption func(*SMSAdapter)

// WithSMSLogger sets the logger for the SMSAdapter.
func WithSMSLogger(log *slog.Logger) SMSAdapterOption {
	return func(a *SMSAdapter) {
		if log != nil {
			a.logger = log
		}
	}
}

// NewSMSAdapter creates an SMS adapter. sender may be nil.
func NewSMSAdapter(sender sms.SMSSender, opts ...SMSAdapterOption) *SMSAdapter {
	a := &SMSAdapter{
		sender: sender,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *SMSAdapter) Provider() string { return ProviderSMSGateway }

func (a *SMSAdapter) Channel() Channel { return ChannelSMS }

func (a *SMSAdapter) Send(ctx context.Context, payload Payload) DeliveryResult {
	result := DeliveryResult{Provider: a.Provider(), Channel: a.Channel()}

	if a.sender == nil {
		result.Status = StatusSkipped
		result.Detail = "sms gateway not configured"
		return result
	}

	message := payload.Subject
	if payload.Body != "" {
		message += ": " + payload.Body
	}

	messageID, err := a.sender.SendSMS(ctx, sms.SendSMSParams{
		Phone:   payload.Destination,
		Message: message,
	})
	if err != nil {
		a.logger.LogAttrs(ctx, slog.LevelError, "SMS delivery failed",
			logger.Provider(a.Provider()),
			logger.OrgID(payload.OrgID),
			logger.UserID(payload.UserID),
			logger.CorrelationID(payload.CorrelationID),
			logger.Error(err),
		)
		result.Status = StatusFailed
		result.Detail = err.Error()
		return result
	}

	// Gateways acknowledge and deliver asynchronously.
	result.Status = StatusQueued
	result.ExternalID = messageID
	return result
}
