package orgsettings

// DigestMode controls how often an organization receives admin digest
// notifications. ModeOff disables them entirely.
type DigestMode string

const (
	DigestOff    DigestMode = "off"
	DigestDaily  DigestMode = "daily"
	DigestWeekly DigestMode = "weekly"
)

// NotificationSettings holds the organization-level delivery toggles.
type NotificationSettings struct {
	SecurityAlerts bool       `yaml:"security_alerts" json:"security_alerts"`
	AdminDigest    DigestMode `yaml:"admin_digest" json:"admin_digest"`
	ProductUpdates bool       `yaml:"product_updates" json:"product_updates"`
}

// Settings is the organization-wide configuration relevant to this subsystem.
type Settings struct {
	OrgID         string               `yaml:"org_id" json:"org_id"`
	Notifications NotificationSettings `yaml:"notifications" json:"notifications"`
}

// DefaultSettings returns the settings applied to organizations without an
// explicit configuration row: everything enabled, daily digest.
func DefaultSettings(orgID string) Settings {
	return Settings{
		OrgID: orgID,
		Notifications: NotificationSettings{
			SecurityAlerts: true,
			AdminDigest:    DigestDaily,
			ProductUpdates: true,
		},
	}
}
