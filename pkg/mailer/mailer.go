// Package mailer sends transactional email over SMTP. Without SMTP
// credentials it degrades to recording a pending-mail document for
// out-of-band delivery instead of failing the caller.
package mailer

import (
	"context"
	"fmt"
	"log"

	mail "github.com/wneessen/go-mail"
)

// PendingStore records mail that could not be delivered directly.
type PendingStore interface {
	SavePendingMail(ctx context.Context, to, subject, text, html string) error
}

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	pending  PendingStore
}

func New(host string, port int, username, password, from string, pending PendingStore) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		pending:  pending,
	}
}

// Configured reports whether SMTP credentials are present.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.username != ""
}

// SendMail delivers one message. When SMTP is not configured the message
// is written to the pending store instead.
func (m *Mailer) SendMail(ctx context.Context, to, subject, text, html string) error {
	if !m.Configured() {
		if m.pending == nil {
			return fmt.Errorf("no SMTP credentials and no pending store configured")
		}
		log.Printf("[Mailer] SMTP not configured, recording pending mail for %s", to)
		return m.pending.SavePendingMail(ctx, to, subject, text, html)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %s: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	if html != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
