// Package mailer sends HTML mail over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"zeniverse_api/config"
	"zeniverse_api/internal/logger"
)

// Sender delivers messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Message is one outgoing mail.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer renders and sends mail from a fixed sender address.
type Mailer struct {
	sender    Sender
	fromName  string
	fromEmail string
	enabled   bool
}

// New builds a Mailer from the SMTP settings. A disabled or unconfigured
// mailer logs and drops every message.
func New(c *config.Configuration) *Mailer {
	enabled := c.MailEnabled && c.SMTPHost != "" && c.MailFromEmail != ""
	if c.MailEnabled && !enabled {
		logger.WithModule("mailer").Warn("MAIL_ENABLED is set but SMTP_HOST or MAIL_FROM_EMAIL is empty, mail is disabled")
	}
	return &Mailer{
		sender:    gomail.NewDialer(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword),
		fromName:  c.MailFromName,
		fromEmail: c.MailFromEmail,
		enabled:   enabled,
	}
}

// NewWithSender is New with an explicit transport.
func NewWithSender(sender Sender, fromName, fromEmail string) *Mailer {
	return &Mailer{sender: sender, fromName: fromName, fromEmail: fromEmail, enabled: true}
}

// Enabled reports whether Send delivers anything.
func (m *Mailer) Enabled() bool {
	return m != nil && m.enabled
}

// Send delivers msg. It returns ctx.Err() when the context is already done;
// SMTP itself is not cancellable.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	log := logger.WithModule("mailer").WithField("to", msg.To).WithField("subject", msg.Subject)
	if !m.Enabled() {
		log.Debug("Mail disabled, message dropped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.fromEmail, m.fromName)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.sender.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	log.Info("Mail sent")
	return nil
}

// Render executes tmpl with data.
func Render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
