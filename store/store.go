// Package store is the relational layer of jotter. It owns the sqlite
// database that keeps users, sessions and todos, and exposes the small
// set of queries the rest of the system is allowed to run.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// Store wraps the sqlite handle. All durable state lives here,
	// request handlers keep nothing in memory between calls.
	Store struct {
		db *sql.DB
	}
)

func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_foreign_keys=on&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping database %v, cause %w", path, err)
	}
	return conn, nil
}

// Open loads the database at path, creating it and its schema when
// missing. The schema statements are idempotent so Open is safe to call
// on every startup.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := openDatabase(ctx, path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init database %v, cause %w", path, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			id integer not null primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			password_hash text not null
		)`,
		`create index if not exists idx_users_username_hash64
			on users(username_hash64)
		`,
		`create table if not exists sessions(
			user_id integer not null,
			token_hash text not null unique,
			expires_at integer not null,
			foreign key (user_id) references users(id)
		)`,
		`create table if not exists todos(
			id integer not null primary key autoincrement,
			user_id integer not null,
			text text not null,
			completed integer not null default 0,
			created_at text not null default (datetime('now')),
			foreign key (user_id) references users(id)
		)`,
		`create index if not exists idx_todos_user_id
			on todos(user_id)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
