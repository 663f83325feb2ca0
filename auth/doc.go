// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies callers and manages credentials.

# Bearer Tokens

TokenIssuer signs HS256 JWTs at login and verifies them on every request:

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	token, expiresAt, err := issuer.Issue(user.ID, user.Email)
	identity, err := issuer.Verify(token)

Verify rejects malformed tokens, bad signatures, algorithms other than
HS256, a foreign issuer, missing or past expiry, and an empty subject. All
failures wrap models.ErrUnauthenticated. Verification has no side effects.

# Request Identity

The identity is request scoped; nothing is kept process-wide:

	ctx = auth.WithIdentity(ctx, identity)
	identity, err := auth.IdentityFrom(ctx)

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password)

# ID Generation

Random hex IDs, used as token ids (jti):

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
