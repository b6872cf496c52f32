// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers.

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse: uniform JSON encoding
  - ParseJSONBody: request body decoding
  - CORS: cross-origin headers and preflight handling
  - GetClientIP: proxy-aware client address extraction
*/
package middleware
