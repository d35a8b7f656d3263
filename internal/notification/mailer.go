package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends plain text order emails over SMTP. With Enabled false it only
// logs what it would have sent.
type Mailer struct {
	cfg    MailConfig
	client sender
	log    *slog.Logger
}

func NewMailer(cfg MailConfig, log *slog.Logger) (*Mailer, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &Mailer{cfg: cfg, log: log}
	if !cfg.Enabled {
		return m, nil
	}

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
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, toEmail, customerName string, orderID int64, total decimal.Decimal) error {
	subject, body := confirmationEmail(customerName, orderID, total)
	return m.send(ctx, toEmail, subject, body)
}

func (m *Mailer) SendStatusUpdate(ctx context.Context, toEmail, customerName string, orderID int64, statusLabel string) error {
	subject, body := statusUpdateEmail(customerName, orderID, statusLabel)
	return m.send(ctx, toEmail, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	if !m.cfg.Enabled {
		m.log.InfoContext(ctx, "email disabled, not sending", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	m.log.InfoContext(ctx, "email sent", "to", to, "subject", subject)
	return nil
}

func confirmationEmail(customerName string, orderID int64, total decimal.Decimal) (string, string) {
	subject := fmt.Sprintf("Order Confirmation - Order #%d", orderID)
	body := fmt.Sprintf(`Hi %s,

Thank you for your order! We have received order #%d and will start preparing it shortly.

Order total: $%s

We will let you know as soon as it is ready for pickup.
`, customerName, orderID, total.StringFixed(2))
	return subject, body
}

func statusUpdateEmail(customerName string, orderID int64, statusLabel string) (string, string) {
	subject := fmt.Sprintf("Order Update - Order #%d is %s", orderID, statusLabel)
	body := fmt.Sprintf(`Hi %s,

Your order #%d is now: %s.
`, customerName, orderID, statusLabel)
	return subject, body
}
