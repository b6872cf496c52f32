// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires HTTP routes to their handlers using Go 1.22+
// method-aware patterns. All domain routes run behind request logging;
// authentication is handled inside the handlers themselves (voter
// session tokens on the voting routes, admin tokens on /admin).
package router
