// Package mail delivers invite codes over SMTP behind an in-process queue.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"skyparty/internal/platform/config"
	"skyparty/pkg/email"
)

const inviteSubject = "Your Sky Party™ invite"

// Message is one invite mail waiting for delivery.
type Message struct {
	To        string
	Code      string
	Club      string
	RequestID string
}

// Sender hands one message to a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dialer is the part of *gomail.Dialer the SMTP sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer Dialer
	from   string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return NewSMTPSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewSMTPSenderWithDialer(dialer Dialer, from string) *SMTPSender {
	return &SMTPSender{dialer: dialer, from: from}
}

// Send dials per message. gomail has no context support, so a cancelled ctx
// returns early and leaves the dial to finish in the background.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := s.compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send invite mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send invite mail: %w", ctx.Err())
	}
}

func (s *SMTPSender) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", inviteSubject)
	m.SetBody("text/plain", inviteBody(msg))
	return m
}

func inviteBody(msg Message) string {
	first, _ := email.DeriveNameFromEmail(msg.To)
	return fmt.Sprintf("Hi %s,\n\nWelcome to %s.\n\nYour invite code: %s\n\nKeep it private; it works once.\n",
		first, msg.Club, msg.Code)
}

// LogSender writes deliveries to the log instead of sending them. Used when
// SMTP is disabled.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "invite mail not sent: smtp disabled",
		"to", email.Mask(msg.To),
		"club", msg.Club,
		"request_id", msg.RequestID,
	)
	return nil
}
