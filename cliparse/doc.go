// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3415)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminUsername: Administrator login name (required)
  - AdminPasswordHash: bcrypt hash of the administrator password (required)
  - AdminTokenSalt: Secret for admin token HMAC (required)
  - SessionSecret: Signing secret for voter session tokens (required)
  - OTPSalt: Secret for hashing stored verification codes (required)
  - SMTPAddr, SMTPFrom: optional code delivery settings

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	ADMIN_USERNAME      → -admin-user
	ADMIN_PASSWORD_HASH → -admin-hash
	ADMIN_TOKEN_SALT    → -admin-salt
	SESSION_SECRET      → -session-secret
	OTP_SALT            → -otp-salt
	SMTP_ADDR           → -smtp-addr
	SMTP_FROM           → -smtp-from

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if any required value is missing. The admin
password is never configured as plaintext; generate the hash with bcrypt
and supply it via ADMIN_PASSWORD_HASH.
*/
package cliparse
