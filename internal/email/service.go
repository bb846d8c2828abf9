package email

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers client-facing mail. Delivery failures are logged by the
// caller and never fail the triggering operation.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, to, name string, start, end time.Time) error
	SendCancellation(ctx context.Context, to, name string, start time.Time) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg Config) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpSender) SendBookingConfirmation(ctx context.Context, to, name string, start, end time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment is confirmed for %s until %s.\n\nSee you soon!",
		name,
		start.Format("15:04 on 02.01.2006"),
		end.Format("15:04"),
	)
	return s.send(ctx, to, "Appointment confirmation", body)
}

func (s *smtpSender) SendCancellation(ctx context.Context, to, name string, start time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been cancelled.\n\nYou can book a new time at any moment.",
		name,
		start.Format("15:04 02.01.2006"),
	)
	return s.send(ctx, to, "Appointment cancelled", body)
}
