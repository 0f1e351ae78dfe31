// Package email delivers transactional mail for account and order events.
package email

import (
	"context"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail string) error
	SendOrderConfirmationEmail(ctx context.Context, toEmail, projectName string, totalCents int64, totalMinutes int) error
}

// NoopSender drops every email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string) error { return nil }

func (NoopSender) SendOrderConfirmationEmail(context.Context, string, string, int64, int) error {
	return nil
}

// Compile-time check that NoopSender implements Sender.
var _ Sender = (*NoopSender)(nil)
