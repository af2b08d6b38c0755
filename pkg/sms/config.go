package sms

import "time"

// Config holds SMS gateway configuration.
// GatewayURL and APIKey are optional: development environments typically run
// without an SMS gateway, and callers treat the absence as "sending disabled".
type Config struct {
	GatewayURL string        `env:"SMS_GATEWAY_URL"`
	APIKey     string        `env:"SMS_API_KEY"`
	SenderID   string        `env:"SMS_SENDER_ID" envDefault:"OrgCentral"`
	Timeout    time.Duration `env:"SMS_TIMEOUT" envDefault:"10s"`
}

// IsConfigured reports whether the gateway credentials are present.
func (c Config) IsConfigured() bool {
	return c.GatewayURL != "" && c.APIKey != ""
}
