package email

// Config holds email service configuration.
// PostmarkServerToken and PostmarkAccountToken are optional to support
// development environments where email sending is disabled.
// SenderEmail and SupportEmail establish the sender identity and reply-to
// behavior for all outbound emails.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}

// IsConfigured reports whether the Postmark credentials are present.
// Missing credentials are an expected condition in development and must be
// handled by callers as "sending disabled", not as an error.
func (c Config) IsConfigured() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
