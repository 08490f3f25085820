// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin capability check.

# Verifier

Handlers and middleware depend on the Verifier interface only:

	type Verifier interface {
		Verify(token string) bool
	}

SharedSecret is the current implementation. It compares SHA-256 digests
with hmac.Equal so timing does not reveal how much of the token matched.
An empty configured secret rejects every token.

	v := auth.NewSharedSecret(cfg.AdminSecret)
	ok := v.Verify(token)

# Bearer Tokens

Admin requests carry the token in the Authorization header:

	Authorization: Bearer <token>

BearerToken extracts it and ValidateRequest runs it through a Verifier:

	if err := auth.ValidateRequest(r, v); err != nil {
		// 401
	}
*/
package auth
