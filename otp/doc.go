// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package otp issues and verifies one-time email verification codes.

# Lifecycle

A challenge is one row in otp_challenge, keyed by address:

	svc := otp.NewService(db, cfg.OTPSalt, sender)
	expiresAt, err := svc.Issue("voter@example.com")
	err = svc.Verify("voter@example.com", "123456")

Issue replaces any prior challenge for the address. Codes are valid for
CodeValidity (2 minutes); a resend within ResendInterval (60 seconds) of
a live challenge returns *ThrottleError carrying the earliest retry time.

Verify outcomes:

  - nil: code correct, challenge consumed (one-shot)
  - ErrInvalidCode: wrong code, retry allowed (counts toward MaxAttempts)
  - ErrExpiredCode: window closed or challenge already consumed
  - ErrTooManyAttempts: attempt cap reached, a new code must be issued

# Delivery

Sender is pluggable. SMTPSender mails through a relay; LogSender logs the
code for development. Delivery happens before the challenge is stored, so
a failed send never throttles the retry.
*/
package otp
