// Package email provides transactional email sending behind the EmailSender
// interface, with a Postmark-backed production client and a development
// sender that writes emails to disk.
package email
