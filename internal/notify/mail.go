package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/Spok95/kindergarten/internal/config"
)

// sender — то, что умеет отправить готовые письма (go-mail Client).
type sender interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

// Mailer шлёт письма через SMTP-релей от фиксированного отправителя.
type Mailer struct {
	client sender
	from   string
}

func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: c, from: cfg.From}, nil
}

func (m *Mailer) Name() string { return "email" }

func (m *Mailer) Accepts(r Recipient) bool { return r.Email != "" }

func (m *Mailer) Deliver(ctx context.Context, r Recipient, msg Message) error {
	em, err := m.build(r, msg)
	if err != nil {
		return err
	}
	return m.client.DialAndSendWithContext(ctx, em)
}

func (m *Mailer) build(r Recipient, msg Message) (*mail.Msg, error) {
	em := mail.NewMsg()
	if err := em.From(m.from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := em.AddToFormat(r.Name, r.Email); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	em.Subject(msg.Subject)
	em.SetBodyString(mail.TypeTextPlain, msg.Body)
	return em, nil
}
