package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

type (
	// User is a full user row, password hash included. Only the login
	// flow should ever see one of these.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}
)

// usernames are queried through a hash64 column first, same trick used
// for any text column we expect to filter on frequently: the integer
// index is cheaper than a text one and the equality re-check on the
// actual value handles hash collisions.
func usernameHash(username string) int64 {
	return int64(xxhash.Sum64String(username))
}

// CreateUser inserts a new user with an already-hashed password.
// A duplicate username surfaces as UsernameTaken, the database enforces
// uniqueness so there is no check-then-insert race to worry about.
func (s *Store) CreateUser(ctx context.Context, username string, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `insert into users (username, username_hash64, password_hash) values (?, ?, ?)`,
		username, usernameHash(username), passwordHash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, UsernameTaken{Username: username}
		}
		return 0, fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unable to read id of user %v, cause %w", username, err)
	}
	return id, nil
}

// LookupUser returns the user row for username, or nil when no such
// user exists. Absence is not an error.
func (s *Store) LookupUser(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select id, username, password_hash from users where username_hash64 = ? and username = ?`,
		usernameHash(username), username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup user %v, cause %w", username, err)
	}
	return &u, nil
}
