// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAdminToken = errors.New("invalid admin token")
	ErrBadCredentials    = errors.New("invalid username or password")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminToken creates an HMAC-based token for an authenticated admin.
// A token is deterministic for a username+salt pair and verifiable without
// any server-side session state.
func GenerateAdminToken(username, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("admin:" + username))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminToken checks that the provided token was minted for username
func ValidateAdminToken(username, token, salt string) error {
	expected := GenerateAdminToken(username, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidAdminToken
	}
	return nil
}

// CheckAdminPassword compares a login attempt against the configured
// credential. The stored value is a bcrypt hash; both the username mismatch
// and the hash mismatch return the same error so the response does not leak
// which half was wrong.
func CheckAdminPassword(username, password, cfgUsername, cfgHash string) error {
	userOK := hmac.Equal([]byte(username), []byte(cfgUsername))
	err := bcrypt.CompareHashAndPassword([]byte(cfgHash), []byte(password))
	if !userOK || err != nil {
		return ErrBadCredentials
	}
	return nil
}

// GenerateOTPCode returns a random 6-digit numeric verification code
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashOTPCode creates the stored form of a verification code. Codes are
// bound to the address they were sent to, so a code issued for one email
// cannot be replayed for another.
func HashOTPCode(email, code, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(email + ":" + code))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyOTPCode checks a submitted code against its stored hash
func VerifyOTPCode(email, code, salt, storedHash string) bool {
	return hmac.Equal([]byte(HashOTPCode(email, code, salt)), []byte(storedHash))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
