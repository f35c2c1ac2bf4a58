package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Mailer sends notifications over SMTP with mandatory STARTTLS.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) message(n Notification) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/plain", n.Body)
	return msg
}

func (m *Mailer) Send(ctx context.Context, n Notification) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("smtp not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.SkipTLSVerify,
	}

	if err := d.DialAndSend(m.message(n)); err != nil {
		return fmt.Errorf("error sending mail to %s: %w", n.To, err)
	}
	return nil
}
