package notify

import (
	"context"
	"fmt"

	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/platform/logger"

	"github.com/wneessen/go-mail"
)

// Mailer delivers the out-of-band notification for a new contact message.
type Mailer interface {
	SendNewMessage(ctx context.Context, msg model.ContactMessage) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPMailer sends notification mail through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
	to     string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, to: cfg.To}, nil
}

func (m *SMTPMailer) SendNewMessage(ctx context.Context, msg model.ContactMessage) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mm.To(m.to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	mm.Subject(fmt.Sprintf("Yeni İletişim Mesajı - %s", msg.Name))

	body := fmt.Sprintf("Ad Soyad: %s\nEmail: %s\n", msg.Name, msg.Email)
	if msg.Phone != "" {
		body += fmt.Sprintf("Telefon: %s\n", msg.Phone)
	}
	body += fmt.Sprintf("Tarih: %s\n\n%s\n", msg.CreatedAt.Format("02.01.2006 15:04"), msg.Message)
	mm.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer stands in when no SMTP relay is configured.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendNewMessage(ctx context.Context, msg model.ContactMessage) error {
	m.log.Info("new contact message received", "id", msg.ID, "name", msg.Name, "email", msg.Email)
	return nil
}
