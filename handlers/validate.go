// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import "regexp"

// local-part@domain with at least one dot in the domain, no whitespace
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// public candidate ids are plain alphanumeric
var candidateIDRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

func validEmail(email string) bool {
	return emailRe.MatchString(email)
}

func validCandidateID(id string) bool {
	return candidateIDRe.MatchString(id)
}
