// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	Send(email, code string) error
}

// LogSender writes codes to the log instead of mailing them. Used when no
// SMTP server is configured (local development and tests).
type LogSender struct{}

func (LogSender) Send(email, code string) error {
	slog.Info("verification code issued", "email", email, "code", code)
	return nil
}

// SMTPSender delivers codes through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func (s SMTPSender) Send(email, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\n"+
			"Your verification code is %s. It expires in 2 minutes.\r\n",
		s.From, email, code)

	if err := smtp.SendMail(s.Addr, nil, s.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
