// Package orgsettings resolves organization-wide configuration, including
// the notification delivery toggles consumed by the delivery policy.
package orgsettings
