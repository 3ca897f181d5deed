// Package db owns the Postgres schema for the relational side of the
// system: users, bookings and comments. Events live in Mongo.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres, verifies the connection and makes sure the
// schema exists.
func Open(dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(10)

	if err := createTables(sqldb); err != nil {
		return nil, err
	}
	return sqldb, nil
}

func createTables(sqldb *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name  TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			address    TEXT NOT NULL DEFAULT '',
			last_seen  TIMESTAMPTZ
		);`,
		// event_id is the UUID of a Mongo event document; the booking number
		// UNIQUE constraint backstops the collision check in the generator.
		`CREATE TABLE IF NOT EXISTS bookings (
			id             BIGSERIAL PRIMARY KEY,
			booking_number TEXT NOT NULL UNIQUE,
			quantity       INT NOT NULL CHECK (quantity > 0),
			booking_date   TIMESTAMPTZ NOT NULL,
			status         TEXT NOT NULL,
			user_id        BIGINT NOT NULL REFERENCES users(id),
			event_id       UUID NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS bookings_event_idx ON bookings(event_id);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         BIGSERIAL PRIMARY KEY,
			text       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			user_id    BIGINT NOT NULL REFERENCES users(id),
			event_id   UUID NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS comments_event_idx ON comments(event_id);`,
	}

	for _, stmt := range stmts {
		if _, err := sqldb.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}
