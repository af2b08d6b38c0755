// Package sms provides text message sending behind the SMSSender interface,
// with a client for commodity JSON HTTP gateways.
package sms
