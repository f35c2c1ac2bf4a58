// Package notify delivers e-mail notifications off the request path.
package notify

import (
	"context"
	"log/slog"
)

// Notification is a single e-mail to one user.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Notifier queues notifications. Implementations never block the caller.
type Notifier interface {
	Notify(n Notification)
}

// Sender delivers one notification synchronously.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// LogSender writes notifications to the log instead of mailing them. Used
// when no SMTP server is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n Notification) error {
	slog.InfoContext(ctx, "notification", "to", n.To, "subject", n.Subject)
	return nil
}
