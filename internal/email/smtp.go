package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"assembly_portal_backend/platform/config"
)

// SMTPSender delivers mail over SMTP via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

// NewSMTPSender creates a sender from the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// Compile-time check that SMTPSender implements Sender.
var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.fromEmail); err != nil {
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

// SendWelcomeEmail greets a freshly registered account.
func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail string) error {
	content, err := render(welcomeTemplate, nil)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

// SendOrderConfirmationEmail tells the owner their project order went in.
func (s *SMTPSender) SendOrderConfirmationEmail(ctx context.Context, toEmail, projectName string, totalCents int64, totalMinutes int) error {
	content, err := render(orderConfirmationTemplate, orderConfirmationData{
		ProjectName:    projectName,
		TotalFormatted: formatCurrencyEUR(totalCents),
		TimeFormatted:  formatDuration(totalMinutes),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectOrderConfirmation, content)
}
