package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/dailybrief-hq/ai-news-brief/internal/config"
)

const smtpTimeout = 30 * time.Second

// EmailNotifier delivers messages over SMTP with STARTTLS and PLAIN auth.
type EmailNotifier struct {
	cfg config.Email
}

// NewEmailNotifier validates the email configuration and returns a notifier.
// Missing fields fail here, before any network connection is made.
func NewEmailNotifier(cfg config.Email) (*EmailNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &EmailNotifier{cfg: cfg}, nil
}

// Send transmits one email. Transport and authentication failures are
// returned with diagnostic detail; credential values never appear in errors.
func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if n == nil {
		return errors.New("email notifier is not initialized")
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.User); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.User),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(smtpTimeout),
	)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		var sendErr *mail.SendError
		if errors.As(err, &sendErr) && sendErr.Reason == mail.ErrSMTPAuth {
			return fmt.Errorf("smtp authentication failed for %s:%d: %w", n.cfg.Host, n.cfg.Port, err)
		}
		return fmt.Errorf("send email via %s:%d: %w", n.cfg.Host, n.cfg.Port, err)
	}
	return nil
}
