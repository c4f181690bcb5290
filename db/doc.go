// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Drivers

Open selects a database/sql driver from the configured type:

  - sqlite: modernc.org/sqlite (pure Go, single connection)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Every query in the repository uses $n placeholders, which all three drivers
accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: Users known to the identity provider
  - poll: Poll metadata and lifecycle state
  - poll_option: Voting options per poll
  - eligibility_token: One row per (poll, user) that has voted
  - ballot: One ballot per token, pointing at the chosen option

# Relationships

	poll 1──* poll_option 1──* ballot
	poll 1──* eligibility_token
	app_user 1──* eligibility_token
	app_user 1──* ballot

Deleting a poll cascades to its options, tokens and ballots.

# Constraint Errors

IsUniqueViolation recognizes unique-constraint failures from every driver
(SQLSTATE 23505 for pq and pgx, SQLITE_CONSTRAINT_UNIQUE for SQLite).
*/
package db
