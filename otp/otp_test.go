// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"errors"
	"testing"
	"time"

	"github.com/openelect/openelect/testutil"
)

// captureSender records the last code handed to it instead of mailing.
type captureSender struct {
	email string
	code  string
	fail  bool
}

func (s *captureSender) Send(email, code string) error {
	if s.fail {
		return errors.New("relay unavailable")
	}
	s.email = email
	s.code = code
	return nil
}

func TestIssueAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{}
	svc := NewService(db, "test-otp-salt", sender)

	expiresAt, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if sender.email != "alice@example.com" {
		t.Errorf("Code sent to wrong address: %s", sender.email)
	}
	if len(sender.code) != 6 {
		t.Errorf("Expected 6-digit code, got %q", sender.code)
	}

	// Expiry should be about CodeValidity out
	until := time.Until(expiresAt)
	if until <= 0 || until > CodeValidity {
		t.Errorf("Unexpected expiry window: %v", until)
	}

	// Correct code verifies once
	if err := svc.Verify("alice@example.com", sender.code); err != nil {
		t.Errorf("Verify failed with correct code: %v", err)
	}

	// A consumed challenge cannot be replayed
	if err := svc.Verify("alice@example.com", sender.code); !errors.Is(err, ErrExpiredCode) {
		t.Errorf("Expected ErrExpiredCode on replay, got %v", err)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{}
	svc := NewService(db, "test-otp-salt", sender)

	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}

	// A wrong code is retryable
	if err := svc.Verify("alice@example.com", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode, got %v", err)
	}
	if err := svc.Verify("alice@example.com", sender.code); err != nil {
		t.Errorf("Verify failed after a wrong attempt: %v", err)
	}
}

func TestVerifyUnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := NewService(db, "test-otp-salt", &captureSender{})

	if err := svc.Verify("nobody@example.com", "123456"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode, got %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{}
	svc := NewService(db, "test-otp-salt", sender)

	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Age the challenge past its window
	_, err := db.Exec(`UPDATE otp_challenge SET expires_at = $1 WHERE email = $2`,
		time.Now().Add(-time.Second), "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to age challenge: %v", err)
	}

	if err := svc.Verify("alice@example.com", sender.code); !errors.Is(err, ErrExpiredCode) {
		t.Errorf("Expected ErrExpiredCode, got %v", err)
	}
}

func TestVerifyAttemptLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{}
	svc := NewService(db, "test-otp-salt", sender)

	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}

	for i := 0; i < MaxAttempts; i++ {
		if err := svc.Verify("alice@example.com", wrong); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("Attempt %d: expected ErrInvalidCode, got %v", i, err)
		}
	}

	// Even the correct code is refused once the limit is hit
	if err := svc.Verify("alice@example.com", sender.code); !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("Expected ErrTooManyAttempts, got %v", err)
	}
}

func TestIssueThrottled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{}
	svc := NewService(db, "test-otp-salt", sender)

	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Fatalf("First issue failed: %v", err)
	}

	_, err := svc.Issue("alice@example.com")
	var throttle *ThrottleError
	if !errors.As(err, &throttle) {
		t.Fatalf("Expected *ThrottleError, got %v", err)
	}
	if !throttle.RetryAt.After(time.Now()) {
		t.Errorf("RetryAt should be in the future, got %v", throttle.RetryAt)
	}

	// A consumed challenge lifts the throttle
	if err := svc.Verify("alice@example.com", sender.code); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Errorf("Issue after consume failed: %v", err)
	}
}

// TestIssueSendFailure verifies a failed delivery stores nothing, so the
// next request is not throttled by a code nobody received.
func TestIssueSendFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	sender := &captureSender{fail: true}
	svc := NewService(db, "test-otp-salt", sender)

	if _, err := svc.Issue("alice@example.com"); err == nil {
		t.Fatal("Expected error from failed send")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM otp_challenge`).Scan(&count); err != nil {
		t.Fatalf("Failed to count challenges: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no stored challenge after failed send, got %d", count)
	}

	// Retry succeeds immediately once the relay recovers
	sender.fail = false
	if _, err := svc.Issue("alice@example.com"); err != nil {
		t.Errorf("Retry after failed send was throttled: %v", err)
	}
}
