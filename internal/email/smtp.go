package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendAssignmentEmail(ctx context.Context, toEmail, operatorName, leadName, accommodationName string) error {
	content, err := renderEmailTemplate(assignmentTemplate, assignmentEmailData{
		OperatorName:      operatorName,
		LeadName:          leadName,
		AccommodationName: accommodationName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, "New Call Request Assigned", content)
}

func (s *SMTPSender) SendCallbackReminderEmail(ctx context.Context, toEmail, operatorName, leadName, accommodationName string, scheduledFor time.Time) error {
	content, err := renderEmailTemplate(reminderTemplate, reminderEmailData{
		OperatorName:      operatorName,
		LeadName:          leadName,
		AccommodationName: accommodationName,
		ScheduledFor:      scheduledFor.Format("Mon, 2 Jan 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, "Upcoming Callback Reminder", content)
}
