package jobs

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers mail through a plain SMTP relay, Mailpit in
// development.
type SMTPMailer struct {
	Addr string
	From string
}

// Send delivers one message. The body is sent as plain text.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.Addr == "" {
		return fmt.Errorf("jobs: smtp relay not configured")
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}
