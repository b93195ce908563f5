// Package mailer turns outbox events into confirmation mails and records
// the audit trail of what was actually sent.
package mailer

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/policies"
)

// GomailMailer sends mail over SMTP via gomail.
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailMailer(host string, port int, user, password, from string) *GomailMailer {
	return &GomailMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *GomailMailer) Send(ctx context.Context, mail policies.ConfirmationMail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.Recipient)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/plain", mail.TextBody)
	if mail.HTMLBody != "" {
		msg.AddAlternative("text/html", mail.HTMLBody)
	}
	return m.dialer.DialAndSend(msg)
}

var _ policies.Mailer = (*GomailMailer)(nil)
