package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	// ActiveSession is the result of resolving a token hash against a
	// live, unexpired session. It carries the public identity of the
	// owning user, never the password hash.
	ActiveSession struct {
		UserID    int64
		Username  string
		ExpiresAt time.Time
	}
)

// InsertSession records a new session for userID. Only the hash of the
// token ever reaches this layer, raw tokens never touch the database.
func (s *Store) InsertSession(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `insert into sessions (user_id, token_hash, expires_at) values (?, ?, ?)`,
		userID, tokenHash, expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("unable to insert session, cause %w", err)
	}
	return nil
}

// LookupActiveSession resolves a token hash to the owning user, but
// only while the session is still valid at the given instant. Expired
// and unknown hashes both come back as nil, callers cannot tell the
// difference and neither can clients.
func (s *Store) LookupActiveSession(ctx context.Context, tokenHash string, now time.Time) (*ActiveSession, error) {
	var as ActiveSession
	var expires int64
	err := s.db.QueryRowContext(ctx, `select u.id, u.username, s.expires_at
		from sessions s
		inner join users u on u.id = s.user_id
		where s.token_hash = ?
		  and s.expires_at > ?`,
		tokenHash, now.Unix()).Scan(&as.UserID, &as.Username, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup session, cause %w", err)
	}
	as.ExpiresAt = time.Unix(expires, 0)
	return &as, nil
}

// DeleteSession removes the session with the given token hash.
// Deleting a hash that is not there is a no-op, logout is idempotent.
func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("unable to delete session, cause %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session whose expiry has passed
// and reports how many rows went away. The server never calls this on
// its own, expiry is enforced by the lookup predicate; this exists for
// the operator prune command.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `delete from sessions where expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("unable to delete expired sessions, cause %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unable to count deleted sessions, cause %w", err)
	}
	return n, nil
}
