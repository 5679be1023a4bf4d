// Package mailer sends multipart/alternative mail over SMTP with STARTTLS.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/trackteam/action-tracker/pkg/config"
)

// SMTPMailer sends mail through a configured SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// New creates an SMTP mailer from config
func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// IsConfigured reports whether sending can be attempted
func (m *SMTPMailer) IsConfigured() bool {
	return m.cfg.IsConfigured()
}

// Send delivers a multipart/alternative message with plain-text and HTML
// parts to every recipient in one SMTP transaction.
func (m *SMTPMailer) Send(to []string, subject, htmlBody, textBody string) error {
	if !m.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}

	const boundary = "=_action-tracker-alt"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")

	if textBody != "" {
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(textBody)
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, to, []byte(msg.String()))
}
