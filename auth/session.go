// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL bounds how long a voter login remains usable. The voting flow
// is human-paced (reading email, typing digits), so this is generous
// relative to the OTP validity window.
const SessionTTL = 30 * time.Minute

var ErrInvalidSession = errors.New("invalid or expired session")

// VoterSession is the short-lived value object carried between the steps of
// the vote-casting flow. It holds identity only; voting state (has_voted)
// is always re-read from storage, never trusted from the token.
type VoterSession struct {
	VoterID string
	Name    string
	Email   string
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewSessionToken signs a voter session token valid for SessionTTL
func NewSessionToken(s VoterSession, secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Name:  s.Name,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.VoterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a token and returns the voter session it
// carries. Expired or tampered tokens yield ErrInvalidSession.
func ParseSessionToken(tokenString, secret string) (VoterSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return VoterSession{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return VoterSession{}, ErrInvalidSession
	}

	return VoterSession{
		VoterID: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
	}, nil
}
