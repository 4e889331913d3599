package notify

import "context"

// Package notify delivers a rendered digest to its recipient. The email
// notifier is the only production implementation; tests inject fakes.

// Message is a rendered notification ready for transport.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Notifier sends a rendered message downstream.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
