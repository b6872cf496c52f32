// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openelect/openelect/auth"
)

const (
	// CodeValidity is how long an issued code can be verified.
	CodeValidity = 2 * time.Minute

	// ResendInterval is the minimum gap between issues for one address.
	ResendInterval = 60 * time.Second

	// MaxAttempts bounds wrong-code retries before the challenge is spent.
	MaxAttempts = 5
)

var (
	ErrInvalidCode     = errors.New("incorrect verification code")
	ErrExpiredCode     = errors.New("verification code has expired")
	ErrTooManyAttempts = errors.New("too many incorrect attempts, request a new code")
)

// ThrottleError signals a resend request before ResendInterval has elapsed.
type ThrottleError struct {
	RetryAt time.Time
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("a code was sent recently, retry after %s", e.RetryAt.Format(time.RFC3339))
}

// Service issues and verifies email verification codes. Challenges live in
// the otp_challenge table, one per address, with the code stored hashed.
type Service struct {
	db     *sql.DB
	salt   string
	sender Sender
}

func NewService(db *sql.DB, salt string, sender Sender) *Service {
	return &Service{db: db, salt: salt, sender: sender}
}

// Issue sends a fresh 6-digit code to email and records its challenge,
// replacing any previous one for the address. Issuing again within
// ResendInterval of a live challenge fails with *ThrottleError.
// Returns the expiry time of the new code.
func (s *Service) Issue(email string) (time.Time, error) {
	var issuedAt time.Time
	var consumed bool
	err := s.db.QueryRow(`
		SELECT issued_at, consumed FROM otp_challenge WHERE email = $1
	`, email).Scan(&issuedAt, &consumed)

	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to query challenge: %w", err)
	}

	if err == nil && !consumed {
		retryAt := issuedAt.Add(ResendInterval)
		if time.Now().Before(retryAt) {
			return time.Time{}, &ThrottleError{RetryAt: retryAt}
		}
	}

	code, err := auth.GenerateOTPCode()
	if err != nil {
		return time.Time{}, err
	}

	// Deliver before storing, so a failed send leaves no challenge behind
	// to throttle the retry.
	if err := s.sender.Send(email, code); err != nil {
		return time.Time{}, fmt.Errorf("failed to send verification code: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(CodeValidity)
	_, err = s.db.Exec(`
		INSERT INTO otp_challenge (email, code_hash, issued_at, expires_at, attempts, consumed)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			issued_at = EXCLUDED.issued_at,
			expires_at = EXCLUDED.expires_at,
			attempts = 0,
			consumed = FALSE
	`, email, auth.HashOTPCode(email, code, s.salt), now, expiresAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to store challenge: %w", err)
	}

	return expiresAt, nil
}

// Verify checks a submitted code for email. A correct code consumes the
// challenge; wrong codes count against MaxAttempts and stay retryable
// until the validity window closes.
func (s *Service) Verify(email, code string) error {
	var codeHash string
	var expiresAt time.Time
	var attempts int
	var consumed bool
	err := s.db.QueryRow(`
		SELECT code_hash, expires_at, attempts, consumed
		FROM otp_challenge WHERE email = $1
	`, email).Scan(&codeHash, &expiresAt, &attempts, &consumed)

	if err == sql.ErrNoRows {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("failed to query challenge: %w", err)
	}

	if consumed || time.Now().After(expiresAt) {
		return ErrExpiredCode
	}
	if attempts >= MaxAttempts {
		return ErrTooManyAttempts
	}

	if !auth.VerifyOTPCode(email, code, s.salt, codeHash) {
		_, uerr := s.db.Exec(`
			UPDATE otp_challenge SET attempts = attempts + 1 WHERE email = $1
		`, email)
		if uerr != nil {
			return fmt.Errorf("failed to record attempt: %w", uerr)
		}
		return ErrInvalidCode
	}

	_, err = s.db.Exec(`
		UPDATE otp_challenge SET consumed = TRUE WHERE email = $1
	`, email)
	if err != nil {
		return fmt.Errorf("failed to consume challenge: %w", err)
	}

	return nil
}
