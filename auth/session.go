package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/avend/jotter/store"
)

// SessionTTLSeconds is how long an issued session stays valid. It is
// also the Max-Age of the cookie that carries the token.
const SessionTTLSeconds = 3600

type (
	// Identity is what a valid session resolves to: the public part of
	// a user, safe to hand to any downstream handler.
	Identity struct {
		UserID   int64
		Username string
	}

	// Sessions issues, validates and revokes opaque session tokens
	// backed by the sessions table. An optional in-memory cache can
	// answer repeat validations without a database round-trip.
	Sessions struct {
		store *store.Store
		cache *identityCache
	}
)

func NewSessions(st *store.Store) *Sessions {
	return &Sessions{store: st}
}

// EnableCache turns on the in-memory validation cache. Safe to call
// only before the Sessions value is shared between goroutines.
func (s *Sessions) EnableCache() *Sessions {
	s.cache = newIdentityCache()
	return s
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issue creates a new session for userID and returns the raw token
// together with its expiry. This is the only place the raw token exists
// server-side, storage only ever sees its hash.
func (s *Sessions) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("unable to generate session token, cause %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	expiresAt := time.Now().Add(SessionTTLSeconds * time.Second)
	err := s.store.InsertSession(ctx, userID, hashToken(token), expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate resolves a raw token to the identity behind it, or nil when
// the token is unknown, revoked or expired. All three look exactly the
// same from the outside.
func (s *Sessions) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}
	tokenHash := hashToken(token)
	now := time.Now()
	if s.cache != nil {
		if id, ok := s.cache.lookup(tokenHash, now); ok {
			return id, nil
		}
	}
	as, err := s.store.LookupActiveSession(ctx, tokenHash, now)
	if err != nil {
		return nil, err
	}
	if as == nil {
		return nil, nil
	}
	id := &Identity{UserID: as.UserID, Username: as.Username}
	if s.cache != nil {
		s.cache.save(tokenHash, *id, as.ExpiresAt)
	}
	return id, nil
}

// Revoke deletes the session behind a raw token. Revoking a token that
// was never issued, or one that is already gone, is a no-op.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	tokenHash := hashToken(token)
	if s.cache != nil {
		s.cache.drop(tokenHash)
	}
	return s.store.DeleteSession(ctx, tokenHash)
}
