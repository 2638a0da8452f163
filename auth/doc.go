// Package auth holds the security core of jotter: password hashing and
// verification, opaque session tokens, and the session cookie.
//
// Passwords are never stored, only a PBKDF2-HMAC-SHA256 derivation of
// them, encoded together with its salt and iteration count in a single
// self-describing string. The iteration count lives inside the stored
// value, so raising the default later keeps every old hash verifiable.
//
// Session tokens are 256 bits of randomness with no structure at all.
// The database only ever sees a SHA-256 of the token; stealing the
// sessions table gives an adversary nothing to present back to the
// server. The token is unsalted on purpose: unlike a password it is
// high-entropy and machine-generated, there is no dictionary to walk.
//
// Expiry is a property of the lookup, not of a background job. A
// session past its expires_at simply stops resolving; the row lingers
// until an operator prunes it.
package auth
