package notification

import (
	"context"
	"log/slog"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/email"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
)

// ProviderPostmark is the provider id of the Postmark email adapter.
const ProviderPostmark = "postmark"

// EmailAdapter delivers EMAIL-channel payloads through an EmailSender.
// A nil sender marks the adapter as unconfigured: every send is skipped with
// an explanatory detail instead of failing, since running without email
// credentials is an expected condition in development.
type EmailAdapter struct {
	sender email.EmailSender
	logger *slog.Logger
}

// EmailAdapterOption configures an EmailAdapter.
type EmailAdapterOption func(*EmailAdapter)

// WithEmailLogger sets the logger for the EmailAdapter.
func WithEmailLogger(log *slog.Logger) EmailAdapterOption {
	return func(a *EmailAdapter) {
		if log != nil {
			a.logger = log
		}
	}
}

// NewEmailAdapter creates an email adapter. sender may be nil.
func NewEmailAdapter(sender email.EmailSender, opts ...EmailAdapterOption) *EmailAdapter {
	a := &EmailAdapter{
		sender: sender,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *EmailAdapter) Provider() string { return ProviderPostmark }

func (a *EmailAdapter) Channel() Channel { return ChannelEmail }

func (a *EmailAdapter) Send(ctx context.Context, payload Payload) DeliveryResult {
	result := DeliveryResult{Provider: a.Provider(), Channel: a.Channel()}

	if a.sender == nil {
		result.Status = StatusSkipped
		result.Detail = "email provider not configured"
		return result
	}

	body := payload.Body
	if payload.ActionURL != "" {
		body += `<p><a href="` + payload.ActionURL + `">` + payload.ActionURL + `</a></p>`
	}

	messageID, err := a.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   payload.Destination,
		Subject:  payload.Subject,
		BodyHTML: body,
		Tag:      "notification",
	})
	if err != nil {
		a.logger.LogAttrs(ctx, slog.LevelError, "Email delivery failed",
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

	// An empty message id with a positive acknowledgement is still a success.
	result.Status = StatusSent
	result.ExternalID = messageID
	return result
}
