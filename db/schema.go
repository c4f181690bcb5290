// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Statements run one at a time so every driver accepts them. The dialect is
// the common subset of PostgreSQL and SQLite.
var schema = []string{
	// Users, as known to the identity provider
	`CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    contact_handle TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
)`,

	// Polls
	`CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT 'open' CHECK (state IN ('open', 'closed')),
    results_published BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    closed_at TIMESTAMP,
    published_at TIMESTAMP,
    CHECK ((state = 'closed') = (closed_at IS NOT NULL)),
    CHECK (results_published = (published_at IS NOT NULL)),
    CHECK (state = 'closed' OR NOT results_published)
)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_state ON poll(state)`,

	// Options
	`CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    UNIQUE (poll_id, text),
    UNIQUE (poll_id, position)
)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id)`,

	// Eligibility tokens: the (poll_id, user_id) constraint is the one-vote rule
	`CREATE TABLE IF NOT EXISTS eligibility_token (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    token TEXT NOT NULL UNIQUE,
    issued_at TIMESTAMP NOT NULL,
    CONSTRAINT eligibility_token_poll_user_key UNIQUE (poll_id, user_id)
)`,

	// Ballots carry no poll_id; the poll is reached through the option
	`CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    option_id TEXT NOT NULL REFERENCES poll_option(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    cast_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_ballot_option_id ON ballot(option_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ballot_user_id ON ballot(user_id)`,
}
