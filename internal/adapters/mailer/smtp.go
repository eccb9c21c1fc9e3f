package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPMailer sends recovery mail over plain SMTP with AUTH PLAIN.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: host + ":" + port, auth: auth, from: from}
}

func (m *SMTPMailer) SendPasswordRecovery(_ context.Context, to, code, resetLink string) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password recovery\r\n\r\n"+
		"Your recovery code is %s (valid for one hour).\r\n\r\n"+
		"Or reset your password directly: %s\r\n", m.from, to, code, resetLink)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send recovery mail: %w", err)
	}
	return nil
}
