// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, credentials, and token handling.

# Random IDs

GenerateID creates crypto/rand hex identifiers:

	id, err := auth.GenerateID(16) // 32 hex chars

# Admin Authentication

Admin login compares against a configured bcrypt hash and yields a
stateless HMAC token:

	if err := auth.CheckAdminPassword(user, pass, cfg.AdminUsername, cfg.AdminPasswordHash); err != nil { ... }
	token := auth.GenerateAdminToken(user, cfg.AdminTokenSalt)

Subsequent admin requests present the token in X-Admin-Token and are
checked with ValidateAdminToken.

# Voter Sessions

A voter login yields a signed session token (JWT, 30 minute TTL) holding
voter id, name, and email. The token is identity only; has_voted is
always re-read from the database.

	tok, err := auth.NewSessionToken(auth.VoterSession{...}, cfg.SessionSecret)
	sess, err := auth.ParseSessionToken(tok, cfg.SessionSecret)

# Verification Codes

GenerateOTPCode produces 6-digit numeric codes. Codes are stored hashed
with HashOTPCode (HMAC keyed by OTP_SALT, bound to the email address)
and checked with VerifyOTPCode.

# IP Hashing

HashIP produces a salted one-way hash for vote audit records.
*/
package auth
