// README: Email sender over SMTP.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender sends an HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender delivers mail through a plain-auth SMTP relay.
type SMTPSender struct {
	addr string // host:port
	from string
	user string
	pass string
}

func NewSMTPSender(addr, from, user, pass string) *SMTPSender {
	return &SMTPSender{addr: addr, from: from, user: user, pass: pass}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	host := s.addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, host)
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
