package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/notification"
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/orgsettings"
)

func TestShouldDeliver(t *testing.T) {
	t.Parallel()

	allOn := orgsettings.NotificationSettings{
		SecurityAlerts: true,
		AdminDigest:    orgsettings.DigestDaily,
		ProductUpdates: true,
	}
	allOff := orgsettings.NotificationSettings{
		SecurityAlerts: false,
		AdminDigest:    orgsettings.DigestOff,
		ProductUpdates: false,
	}

	tests := []struct {
		name     string
		settings orgsettings.NotificationSettings
		topic    notification.Topic
		want     bool
	}{
		{"policy update allowed when security alerts on", allOn, notification.TopicPolicyUpdate, true},
		{"policy update blocked when security alerts off", allOff, notification.TopicPolicyUpdate, false},
		{"compliance reminder allowed when security alerts on", allOn, notification.TopicComplianceReminder, true},
		{"compliance reminder blocked when security alerts off", allOff, notification.TopicComplianceReminder, false},
		{"document expiry allowed when security alerts on", allOn, notification.TopicDocumentExpiry, true},
		{"document expiry blocked when security alerts off", allOff, notification.TopicDocumentExpiry, false},
		{"broadcast allowed with daily digest", allOn, notification.TopicBroadcast, true},
		{
			"broadcast allowed with weekly digest",
			orgsettings.NotificationSettings{AdminDigest: orgsettings.DigestWeekly},
			notification.TopicBroadcast,
			true,
		},
		{"broadcast blocked with digest off", allOff, notification.TopicBroadcast, false},
		{"system announcement allowed when product updates on", allOn, notification.TopicSystemAnnouncement, true},
		{"system announcement blocked when product updates off", allOff, notification.TopicSystemAnnouncement, false},
		{"other always allowed", allOff, notification.TopicOther, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notification.ShouldDeliver(tt.settings, tt.topic))
		})
	}
}

func TestShouldDeliver_TotalOverTopicSet(t *testing.T) {
	t.Parallel()

	// Every topic in the closed set must produce a deterministic decision
	// for every toggle combination without panicking.
	digests := []orgsettings.DigestMode{orgsettings.DigestOff, orgsettings.DigestDaily, orgsettings.DigestWeekly}
	for _, topic := range notification.Topics {
		for _, security := range []bool{true, false} {
			for _, digest := range digests {
				for _, product := range []bool{true, false} {
					settings := orgsettings.NotificationSettings{
						SecurityAlerts: security,
						AdminDigest:    digest,
						ProductUpdates: product,
					}
					first := notification.ShouldDeliver(settings, topic)
					second := notification.ShouldDeliver(settings, topic)
					assert.Equal(t, first, second, "topic %s must be deterministic", topic)
				}
			}
		}
	}
}

func TestTopicIsValid(t *testing.T) {
	t.Parallel()

	for _, topic := range notification.Topics {
		assert.True(t, topic.IsValid(), "topic %s", topic)
	}
	assert.False(t, notification.Topic("marketing").IsValid())
	assert.False(t, notification.Topic("").IsValid())
}
