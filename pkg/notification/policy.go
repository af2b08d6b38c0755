package notification

import (
	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/orgsettings"
)

// Topic sets gated by each organization toggle. The three sets are disjoint;
// topics outside every set are always deliverable.
var (
	securityTopics = map[Topic]struct{}{
		TopicPolicyUpdate:       {},
		TopicComplianceReminder: {},
		TopicDocumentExpiry:     {},
	}
	digestTopics = map[Topic]struct{}{
		TopicBroadcast: {},
	}
	productTopics = map[Topic]struct{}{
		TopicSystemAnnouncement: {},
	}
)

// ShouldDeliver decides whether a topic is deliverable under the given
// organization settings, independent of channel. It is pure and total over
// the closed topic set: security/compliance topics follow the SecurityAlerts
// flag, digest topics require AdminDigest to not be off, product topics
// follow the ProductUpdates flag, and anything else is allowed.
func ShouldDeliver(settings orgsettings.NotificationSettings, topic Topic) bool {
	if _, ok := securityTopics[topic]; ok {
		return settings.SecurityAlerts
	}
	if _, ok := digestTopics[topic]; ok {
		return settings.AdminDigest != orgsettings.DigestOff
	}
	if _, ok := productTopics[topic]; ok {
		return settings.ProductUpdates
	}
	return true
}
