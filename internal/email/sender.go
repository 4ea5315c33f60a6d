// Package email delivers operator-facing notification emails.
package email

import (
	"context"
	"time"

	"stayportal_backend/platform/config"
)

// Sender delivers call request emails to operators.
type Sender interface {
	SendAssignmentEmail(ctx context.Context, toEmail, operatorName, leadName, accommodationName string) error
	SendCallbackReminderEmail(ctx context.Context, toEmail, operatorName, leadName, accommodationName string, scheduledFor time.Time) error
}

// NoopSender drops every email. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendAssignmentEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendCallbackReminderEmail(context.Context, string, string, string, string, time.Time) error {
	return nil
}

// NewSender picks the delivery backend from configuration: SMTP when email
// is enabled, otherwise a no-op.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
