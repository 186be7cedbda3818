package mailer

import (
	"context"
	"fmt"
	netmail "net/mail"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/iho/fintrack/internal/domain"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer delivers notifications as multipart e-mails.
// It implements usecase.Notifier.
type SMTPMailer struct {
	client    sender
	from      *netmail.Address
	templates *Templates
}

// NewSMTPMailer creates a mailer and parses its templates.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	from, err := netmail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", cfg.From, err)
	}

	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}

	return &SMTPMailer{
		client:    client,
		from:      from,
		templates: templates,
	}, nil
}

// Send renders the notification template and mails it to the recipient.
func (m *SMTPMailer) Send(ctx context.Context, n *domain.Notification) error {
	to, err := netmail.ParseAddress(n.Recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", n.Recipient, err)
	}

	rendered, err := m.templates.Render(n.Template, n.Data)
	if err != nil {
		return err
	}

	msg, err := m.compose(to, rendered, n)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("notification_id", n.ID).
		Str("template", n.Template).
		Msg("notification mailed")

	return nil
}

// compose builds a message with a plain text body and an HTML alternative.
func (m *SMTPMailer) compose(to *netmail.Address, rendered *Message, n *domain.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.from.Name, m.from.Address); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.AddToFormat(to.Name, to.Address); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}

	msg.Subject(rendered.Subject)

	date := n.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}
	msg.SetDateWithValue(date)
	if n.ID != "" {
		msg.SetMessageIDWithValue(n.ID + "@fintrack")
	}

	msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, rendered.HTML)

	return msg, nil
}
