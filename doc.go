// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the OpenElect API server.

OpenElect is a small election service: voters register with their voter
ID, candidates apply and verify their email, an admin approves or
rejects applications, and each voter casts exactly one ballot after
confirming a one-time code sent to their email.

# Starting the Server

The server reads environment variables (a .env file is honored) or CLI
flags:

	DATABASE_URL=election.db go run main.go

Or with flags:

	go run main.go -p 3415 -t sqlite -d election.db

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string (postgres URL or sqlite path)
  - ADMIN_USERNAME (-admin-user): admin login name
  - ADMIN_PASSWORD_HASH (-admin-hash): bcrypt hash of the admin password
  - ADMIN_TOKEN_SALT (-admin-salt): secret for admin token HMAC
  - SESSION_SECRET (-session-secret): key for voter session tokens
  - OTP_SALT (-otp-salt): secret for hashing verification codes

Optional settings:

  - PORT (-p): server port (default: 3415)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - SMTP_ADDR (-smtp-addr): SMTP relay for verification codes; codes
    are logged when unset
  - SMTP_FROM (-smtp-from): From address for outgoing mail

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voters, candidates, voting, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Tokens, sessions, password and code hashing
  - db: Schema creation and the vote-recording transaction
  - otp: One-time verification codes
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
